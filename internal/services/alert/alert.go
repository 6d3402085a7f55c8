// Package services находит категории, по которым траты месяца
// превысили настроенный бюджет.
package services

import (
	"context"
	"fmt"
	"math"

	"github.com/darusc/expense-tracker/internal/models"
)

// SummaryProvider отдаёт суммы трат по категориям за месяц.
type SummaryProvider interface {
	PerCategoryTotals(ctx context.Context, userID int64, year, month int) (map[string]models.CategoryStat, error)
}

// AlertGenerator сравнивает траты месяца с бюджетами категорий.
type AlertGenerator struct {
	summary SummaryProvider
	budgets map[string]float64
}

// NewAlertGenerator создает новый экземпляр AlertGenerator.
// budgets задаёт месячный бюджет каждой категории в валюте.
func NewAlertGenerator(summary SummaryProvider, budgets map[string]float64) *AlertGenerator {
	return &AlertGenerator{summary: summary, budgets: budgets}
}

// Generate возвращает превышения бюджетов за месяц: категория →
// сумма перерасхода в валюте. Категория попадает в результат, только
// когда её траты строго больше бюджета. Сравнение ведётся в центах,
// чтобы не зависеть от погрешностей плавающей точки.
func (g *AlertGenerator) Generate(ctx context.Context, userID int64, year, month int) (map[string]float64, error) {
	const op = "services.alert.Generate"

	totals, err := g.summary.PerCategoryTotals(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	overages := make(map[string]float64)
	for category, budget := range g.budgets {
		stat, ok := totals[category]
		if !ok {
			continue
		}
		spentCents := int64(math.Round(stat.Value * 100))
		budgetCents := int64(math.Round(budget * 100))
		if spentCents > budgetCents {
			overages[category] = float64(spentCents-budgetCents) / 100
		}
	}
	return overages, nil
}
