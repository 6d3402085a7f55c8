// Package services периодически ищет пользователей с перерасходом
// бюджета и публикует уведомления в очередь.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/darusc/expense-tracker/internal/lib/rabbitmq"
	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
	queues "github.com/darusc/expense-tracker/internal/rabbitmq"
)

// UserRepository отдаёт пользователей, которых нужно проверить
// на превышение бюджетов.
type UserRepository interface {
	FindUsersWithExpenses(ctx context.Context, year, month int) ([]*models.User, error)
}

// AlertProvider считает превышения бюджетов пользователя за месяц.
type AlertProvider interface {
	Generate(ctx context.Context, userID int64, year, month int) (map[string]float64, error)
}

// SchedulerService раз в сутки проверяет траты текущего месяца
// и публикует сообщение на каждое превышение бюджета.
type SchedulerService struct {
	repo   UserRepository
	alerts AlertProvider
	log    *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, alerts AlertProvider, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:   repo,
		alerts: alerts,
		log:    log,
	}
}

// NotifyBudgetOverruns запускает ежесуточную проверку бюджетов.
// Первая проверка выполняется сразу при старте.
func (s *SchedulerService) NotifyBudgetOverruns(ctx context.Context, channel *amqp.Channel) {
	s.runNotifyBudgetOverruns(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runNotifyBudgetOverruns(ctx, channel)
		}
	}
}

func (s *SchedulerService) runNotifyBudgetOverruns(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting budget overrun check")

	now := time.Now()
	year, month := now.Year(), int(now.Month())

	users, err := s.repo.FindUsersWithExpenses(ctx, year, month)
	if err != nil {
		s.log.Error("failed to find users with expenses", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no users with expenses this month")
		return
	}
	s.log.Info("found users with expenses", "count", len(users))

	for _, user := range users {
		overages, err := s.alerts.Generate(ctx, user.ID, year, month)
		if err != nil {
			s.log.Error("failed to generate alerts", "username", user.Username, sl.Err(err))
			continue
		}
		for category, overage := range overages {
			alert := models.AlertInfo{
				Email:    user.Email,
				Username: user.Username,
				Year:     year,
				Month:    month,
				Category: category,
				Overage:  overage,
			}
			if err := rabbitmq.PublishMessage(channel, "notifications", queues.BudgetAlertRoutingKey, alert); err != nil {
				s.log.Error("failed to publish message", sl.Err(err))
			}
		}
	}
}
