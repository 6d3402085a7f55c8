package config

import (
	"errors"
	"fmt"
)

var errNoCategories = errors.New("category_budgets must contain at least one category")

type budgetError struct {
	category string
	budget   float64
}

func (e *budgetError) Error() string {
	return fmt.Sprintf("category %q must have a positive budget, got %v", e.category, e.budget)
}
