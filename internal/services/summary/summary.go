// Package services вычисляет месячные сводки трат: общую сумму,
// суммы и средние по категориям с долями от общих расходов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
)

const cacheTTL = 10 * time.Minute

// SummaryRepository определяет агрегирующие запросы по тратам.
type SummaryRepository interface {
	// SumAmounts возвращает сумму всех трат пользователя за месяц в центах.
	SumAmounts(ctx context.Context, userID int64, year, month int) (int64, error)
	// SumAmountsByCategory возвращает сумму трат категории за месяц в центах.
	SumAmountsByCategory(ctx context.Context, userID int64, year, month int, category string) (int64, error)
	// AverageAmountsByCategory возвращает среднюю трату категории за месяц в центах.
	AverageAmountsByCategory(ctx context.Context, userID int64, year, month int, category string) (float64, error)
}

// Cache описывает методы кеширования готовых сводок.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// SummaryService вычисляет сводки и кеширует их в redis.
// Кеш сбрасывается сервисом трат при любом изменении данных месяца.
type SummaryService struct {
	repo       SummaryRepository
	cache      Cache
	log        *slog.Logger
	categories []string
}

// NewSummaryService создает новый экземпляр SummaryService.
func NewSummaryService(repo SummaryRepository, cache Cache, log *slog.Logger, categories []string) *SummaryService {
	return &SummaryService{
		repo:       repo,
		cache:      cache,
		log:        log,
		categories: categories,
	}
}

// CacheKey возвращает ключ кеша сводки пользователя за месяц.
func CacheKey(userID int64, year, month int) string {
	return fmt.Sprintf("summary:%d:%d:%d", userID, year, month)
}

// Summary возвращает полную сводку за месяц, при возможности из кеша.
// Для месяца без трат возвращает нулевые значения по всем категориям.
func (s *SummaryService) Summary(ctx context.Context, userID int64, year, month int) (*models.MonthlySummary, error) {
	const op = "services.summary.Summary"

	key := CacheKey(userID, year, month)
	var cached models.MonthlySummary
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read summary cache", slog.String("key", key), sl.Err(err))
	} else if found {
		return &cached, nil
	}

	totalCents, err := s.repo.SumAmounts(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := &models.MonthlySummary{
		Total:            round2(float64(totalCents) / 100),
		CategoryTotals:   make(map[string]models.CategoryStat, len(s.categories)),
		CategoryAverages: make(map[string]models.CategoryStat, len(s.categories)),
	}
	for _, category := range s.categories {
		sumCents, err := s.repo.SumAmountsByCategory(ctx, userID, year, month, category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.CategoryTotals[category] = newStat(float64(sumCents), totalCents)

		avgCents, err := s.repo.AverageAmountsByCategory(ctx, userID, year, month, category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.CategoryAverages[category] = newStat(avgCents, totalCents)
	}

	if err := s.cache.Set(key, summary, cacheTTL); err != nil {
		s.log.Warn("failed to write summary cache", slog.String("key", key), sl.Err(err))
	}
	return summary, nil
}

// TotalExpenditure возвращает общую сумму трат за месяц в валюте.
func (s *SummaryService) TotalExpenditure(ctx context.Context, userID int64, year, month int) (float64, error) {
	summary, err := s.Summary(ctx, userID, year, month)
	if err != nil {
		return 0, err
	}
	return summary.Total, nil
}

// PerCategoryTotals возвращает суммы трат по категориям с долей
// каждой категории в общих расходах месяца.
func (s *SummaryService) PerCategoryTotals(ctx context.Context, userID int64, year, month int) (map[string]models.CategoryStat, error) {
	summary, err := s.Summary(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return summary.CategoryTotals, nil
}

// PerCategoryAverages возвращает средние траты по категориям.
func (s *SummaryService) PerCategoryAverages(ctx context.Context, userID int64, year, month int) (map[string]models.CategoryStat, error) {
	summary, err := s.Summary(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return summary.CategoryAverages, nil
}

// newStat переводит значение из центов в валюту и считает его долю
// от общей суммы месяца. При нулевой общей сумме доля равна нулю.
func newStat(valueCents float64, totalCents int64) models.CategoryStat {
	stat := models.CategoryStat{Value: round2(valueCents / 100)}
	if totalCents != 0 {
		stat.Percentage = round2(valueCents / float64(totalCents) * 100)
	}
	return stat
}

// round2 округляет до двух знаков по правилу half away from zero.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
