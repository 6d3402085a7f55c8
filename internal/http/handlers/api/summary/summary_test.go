package summary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/darusc/expense-tracker/internal/http/middlewarectx"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/session"
)

type SummaryMock struct {
	mock.Mock
}

func (m *SummaryMock) Summary(ctx context.Context, userID int64, year, month int) (*models.MonthlySummary, error) {
	args := m.Called(ctx, userID, year, month)
	summary, _ := args.Get(0).(*models.MonthlySummary)
	return summary, args.Error(1)
}

type AlertsMock struct {
	mock.Mock
}

func (m *AlertsMock) Generate(ctx context.Context, userID int64, year, month int) (map[string]float64, error) {
	args := m.Called(ctx, userID, year, month)
	overages, _ := args.Get(0).(map[string]float64)
	return overages, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSummaryHandler_ServeHTTP(t *testing.T) {
	summaryMock := new(SummaryMock)
	alertsMock := new(AlertsMock)
	logger := newNoopLogger()

	handler := New(logger, summaryMock, alertsMock)

	monthlySummary := &models.MonthlySummary{
		Total: 150,
		CategoryTotals: map[string]models.CategoryStat{
			"Groceries": {Value: 150, Percentage: 100},
		},
		CategoryAverages: map[string]models.CategoryStat{
			"Groceries": {Value: 75, Percentage: 100},
		},
	}

	tests := []struct {
		name           string
		withSession    bool
		summaryResp    *models.MonthlySummary
		summaryErr     error
		alertsResp     map[string]float64
		alertsErr      error
		alertsExpected bool
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid summary with overage",
			withSession:    true,
			summaryResp:    monthlySummary,
			alertsResp:     map[string]float64{"Groceries": 50},
			alertsExpected: true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "no session",
			withSession:    false,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "unauthorized",
		},
		{
			name:           "summary service error",
			withSession:    true,
			summaryErr:     errors.New("storage error"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not compute summary",
		},
		{
			name:           "alert service error",
			withSession:    true,
			summaryResp:    monthlySummary,
			alertsErr:      errors.New("storage error"),
			alertsExpected: true,
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not compute alerts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaryMock.ExpectedCalls = nil
			summaryMock.Calls = nil
			alertsMock.ExpectedCalls = nil
			alertsMock.Calls = nil

			if tt.withSession {
				summaryMock.On("Summary", mock.Anything, int64(7), 2025, 8).
					Return(tt.summaryResp, tt.summaryErr).Once()
			}
			if tt.alertsExpected {
				alertsMock.On("Generate", mock.Anything, int64(7), 2025, 8).
					Return(tt.alertsResp, tt.alertsErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/summary?year=2025&month=8", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withSession {
				sess := &session.Session{ID: "sess123", Data: session.Data{UserID: 7}}
				ctx = context.WithValue(ctx, middlewarectx.SessionKey, sess)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
				return
			}

			data, ok := got["data"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, float64(2025), data["year"])
			assert.Equal(t, float64(8), data["month"])

			alerts, ok := data["alerts"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, float64(50), alerts["Groceries"])

			summaryData, ok := data["summary"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, float64(150), summaryData["total"])
		})
	}
}
