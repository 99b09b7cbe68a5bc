package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Styles lists every travel style in display order.
var Styles = []TravelStyle{
	StyleBeach,
	StyleCity,
	StyleNature,
	StyleCulture,
	StyleFood,
	StyleAdventure,
}

// BudgetOptions are the selectable budgets per person, in USD.
var BudgetOptions = []int{100, 200, 300, 500, 1000, 2000}

const (
	MinDays       = 1
	MaxDays       = 30
	MinCompanions = 0
	MaxCompanions = 10
)

// TravelConfig holds the trip parameters rendered into the system instruction.
type TravelConfig struct {
	Style           TravelStyle `json:"style" yaml:"style"`
	BudgetPerPerson int         `json:"budget_per_person" yaml:"budget_per_person"`
	Days            int         `json:"days" yaml:"days"`
	Companions      int         `json:"companions" yaml:"companions"`
}

// DefaultTravelConfig is used when a caller does not supply one.
func DefaultTravelConfig() TravelConfig {
	return TravelConfig{
		Style:           StyleBeach,
		BudgetPerPerson: 300,
		Days:            5,
		Companions:      2,
	}
}

// Travellers is the party size including the user.
func (c TravelConfig) Travellers() int {
	return c.Companions + 1
}

// TotalBudget is the budget for the whole party.
func (c TravelConfig) TotalBudget() int {
	return c.BudgetPerPerson * c.Travellers()
}

// Validate reports every field outside its allowed set or range.
func (c TravelConfig) Validate() error {
	var errs []string
	if !slices.Contains(Styles, c.Style) {
		errs = append(errs, fmt.Sprintf("style %q is not one of %v", c.Style, Styles))
	}
	if !slices.Contains(BudgetOptions, c.BudgetPerPerson) {
		errs = append(errs, fmt.Sprintf("budget_per_person %d is not one of %v", c.BudgetPerPerson, BudgetOptions))
	}
	if c.Days < MinDays || c.Days > MaxDays {
		errs = append(errs, fmt.Sprintf("days must be between %d and %d", MinDays, MaxDays))
	}
	if c.Companions < MinCompanions || c.Companions > MaxCompanions {
		errs = append(errs, fmt.Sprintf("companions must be between %d and %d", MinCompanions, MaxCompanions))
	}
	if len(errs) > 0 {
		return &ValidationError{Field: "travel_config", Reason: strings.Join(errs, "; ")}
	}
	return nil
}

// ParseTravelStyle accepts a style name case-insensitively.
func ParseTravelStyle(s string) (TravelStyle, error) {
	style := TravelStyle(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Styles, style) {
		return "", &ValidationError{Field: "style", Reason: fmt.Sprintf("unknown style %q", s)}
	}
	return style, nil
}
