package models

// CategoryStat содержит значение по категории и его долю от общего итога
// за месяц. Percentage равен нулю при нулевом итоге и округляется до двух
// знаков после запятой.
type CategoryStat struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// MonthlySummary содержит полную сводку трат пользователя за месяц.
type MonthlySummary struct {
	Total            float64                 `json:"total"`
	CategoryTotals   map[string]CategoryStat `json:"category_totals"`
	CategoryAverages map[string]CategoryStat `json:"category_averages"`
}

// AlertInfo описывает сообщение о превышении бюджета по категории,
// публикуемое планировщиком в очередь уведомлений.
type AlertInfo struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Category string  `json:"category"`
	Overage  float64 `json:"overage"`
}
