package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/darusc/expense-tracker/internal/models"
	services "github.com/darusc/expense-tracker/internal/services/alert"
)

type MockSummaryProvider struct {
	mock.Mock
}

func (m *MockSummaryProvider) PerCategoryTotals(ctx context.Context, userID int64, year, month int) (map[string]models.CategoryStat, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.CategoryStat), args.Error(1)
}

func TestAlertGenerator_Generate(t *testing.T) {
	budgets := map[string]float64{
		"Groceries": 100.00,
		"Transport": 50.00,
	}

	tests := []struct {
		name   string
		totals map[string]models.CategoryStat
		want   map[string]float64
	}{
		{
			name: "превышение бюджета даёт перерасход",
			totals: map[string]models.CategoryStat{
				"Groceries": {Value: 120.00},
				"Transport": {Value: 30.00},
			},
			want: map[string]float64{"Groceries": 20.00},
		},
		{
			name: "траты в пределах бюджета - перерасхода нет",
			totals: map[string]models.CategoryStat{
				"Groceries": {Value: 80.00},
				"Transport": {Value: 50.00},
			},
			want: map[string]float64{},
		},
		{
			name: "траты ровно в бюджет - перерасхода нет",
			totals: map[string]models.CategoryStat{
				"Groceries": {Value: 100.00},
			},
			want: map[string]float64{},
		},
		{
			name:   "месяц без трат",
			totals: map[string]models.CategoryStat{},
			want:   map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := new(MockSummaryProvider)
			summary.On("PerCategoryTotals", mock.Anything, int64(1), 2025, 8).Return(tt.totals, nil).Once()
			generator := services.NewAlertGenerator(summary, budgets)

			got, err := generator.Generate(context.Background(), 1, 2025, 8)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			summary.AssertExpectations(t)
		})
	}
}

func TestAlertGenerator_Generate_SummaryError(t *testing.T) {
	summary := new(MockSummaryProvider)
	summary.On("PerCategoryTotals", mock.Anything, int64(1), 2025, 8).Return(nil, errors.New("db down")).Once()
	generator := services.NewAlertGenerator(summary, map[string]float64{"Groceries": 100})

	_, err := generator.Generate(context.Background(), 1, 2025, 8)

	assert.Error(t, err)
}
