// Package month содержит вспомогательные функции выбора отчётного месяца.
package month

import (
	"strconv"
	"time"
)

// FromQuery разбирает параметры года и месяца из строки запроса.
// Отсутствующие или некорректные значения заменяются текущими:
// страница без параметров всегда показывает текущий месяц.
func FromQuery(yearValue, monthValue string, now time.Time) (year, month int) {
	year, month = now.Year(), int(now.Month())

	if parsed, err := strconv.Atoi(yearValue); err == nil && parsed >= 1970 && parsed <= 9999 {
		year = parsed
	}
	if parsed, err := strconv.Atoi(monthValue); err == nil && parsed >= 1 && parsed <= 12 {
		month = parsed
	}
	return year, month
}

// Numbers возвращает номера месяцев для выпадающего списка.
func Numbers() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
}
