package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/darusc/expense-tracker/internal/models"
	services "github.com/darusc/expense-tracker/internal/services/expense"
)

var testCategories = []string{"Entertainment", "Groceries", "Transport"}

func TestValidate(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	tests := []struct {
		name        string
		date        time.Time
		category    string
		amountCents int64
		description string
		want        *models.ExpenseErrors
	}{
		{
			name:        "корректная трата",
			date:        yesterday,
			category:    "Groceries",
			amountCents: 1250,
			description: "weekly shopping",
			want:        nil,
		},
		{
			name:        "дата в будущем",
			date:        tomorrow,
			category:    "Groceries",
			amountCents: 1250,
			description: "weekly shopping",
			want:        &models.ExpenseErrors{Date: services.MsgDateInFuture},
		},
		{
			name:        "неизвестная категория",
			date:        yesterday,
			category:    "Crypto",
			amountCents: 1250,
			description: "weekly shopping",
			want:        &models.ExpenseErrors{Category: services.MsgUnknownCategory},
		},
		{
			name:        "пустая категория",
			date:        yesterday,
			category:    "",
			amountCents: 1250,
			description: "weekly shopping",
			want:        &models.ExpenseErrors{Category: services.MsgUnknownCategory},
		},
		{
			name:        "нулевая сумма",
			date:        yesterday,
			category:    "Groceries",
			amountCents: 0,
			description: "weekly shopping",
			want:        &models.ExpenseErrors{Amount: services.MsgAmountNotPositive},
		},
		{
			name:        "отрицательная сумма",
			date:        yesterday,
			category:    "Groceries",
			amountCents: -500,
			description: "refund",
			want:        &models.ExpenseErrors{Amount: services.MsgAmountNotPositive},
		},
		{
			name:        "описание из одних пробелов",
			date:        yesterday,
			category:    "Groceries",
			amountCents: 1250,
			description: "   ",
			want:        &models.ExpenseErrors{Description: services.MsgEmptyDescription},
		},
		{
			name:        "все ошибки накапливаются",
			date:        tomorrow,
			category:    "Crypto",
			amountCents: 0,
			description: "",
			want: &models.ExpenseErrors{
				Date:        services.MsgDateInFuture,
				Category:    services.MsgUnknownCategory,
				Amount:      services.MsgAmountNotPositive,
				Description: services.MsgEmptyDescription,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.Validate(tt.date, tt.category, tt.amountCents, tt.description, testCategories)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "целое число", value: "12", want: 1200},
		{name: "два знака после запятой", value: "12.34", want: 1234},
		{name: "округление до цента half away from zero", value: "300.505", want: 30051},
		{name: "пробелы по краям", value: " 5.5 ", want: 550},
		{name: "пустая строка", value: "", wantErr: true},
		{name: "не число", value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.ParseAmount(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := services.ParseDate("2025-08-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = services.ParseDate("15.08.2025")
	assert.Error(t, err)
}
