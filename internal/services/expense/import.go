package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/darusc/expense-tracker/internal/lib/sl"
	"github.com/darusc/expense-tracker/internal/models"
)

// ImportCSV загружает траты пользователя из CSV-файла. Поток сначала
// сохраняется во временный файл, чтобы не держать весь файл в памяти
// и не зависеть от времени жизни запроса. Формат строк позиционный:
// дата, сумма, описание, категория. Строки с неизвестной категорией,
// нечитаемые строки и строки, не прошедшие валидацию, пропускаются
// с записью в лог. Повторные строки внутри файла учитываются один раз.
// Все прошедшие отбор траты сохраняются в одной транзакции, поэтому
// при ошибке записи не остаётся частично импортированных данных.
// Возвращает количество сохранённых трат.
func (s *ExpenseService) ImportCSV(ctx context.Context, userID int64, upload io.Reader) (int, error) {
	const op = "services.expense.ImportCSV"

	tmp, err := os.CreateTemp("", "expenses-import-*.csv")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, upload); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	expenses, err := s.collectRows(userID, tmp)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(expenses) == 0 {
		return 0, nil
	}

	if err := s.repo.CreateExpenseBatch(ctx, expenses); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	months := make(map[time.Time]struct{})
	for _, expense := range expenses {
		month := time.Date(expense.Date.Year(), expense.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if _, ok := months[month]; ok {
			continue
		}
		months[month] = struct{}{}
		s.invalidateSummary(userID, expense.Date)
	}

	s.log.Info("csv import finished", slog.Int("imported", len(expenses)))
	return len(expenses), nil
}

// collectRows читает CSV-поток и возвращает траты, пригодные для записи.
func (s *ExpenseService) collectRows(userID int64, r io.Reader) ([]models.Expense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	visited := make(map[string]struct{})
	var expenses []models.Expense
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Info("skipping row: malformed csv", slog.Int("line", line), sl.Err(err))
			continue
		}
		if len(record) < 4 {
			s.log.Info("skipping row: not enough fields", slog.Int("line", line), slog.Int("fields", len(record)))
			continue
		}

		category := strings.TrimSpace(record[3])
		if !slices.Contains(s.categories, category) {
			s.log.Info("skipping row: unknown category", slog.Int("line", line), slog.String("category", category))
			continue
		}

		key := dedupKey(record)
		if _, ok := visited[key]; ok {
			s.log.Info("skipping row: duplicate", slog.Int("line", line))
			continue
		}
		visited[key] = struct{}{}

		form := models.ExpenseForm{
			Date:        record[0],
			Amount:      record[1],
			Description: record[2],
			Category:    category,
		}
		expense, errs := s.buildExpense(userID, form)
		if errs != nil {
			s.log.Info("skipping row: validation failed", slog.Int("line", line), slog.Any("errors", *errs))
			continue
		}
		expenses = append(expenses, *expense)
	}
	return expenses, nil
}

// dedupKey строит ключ повторяемости строки из всех её полей,
// обрезанных от пробелов и склеенных через разделитель.
func dedupKey(record []string) string {
	fields := make([]string, len(record))
	for i, field := range record {
		fields[i] = strings.TrimSpace(field)
	}
	return strings.Join(fields, "|")
}
