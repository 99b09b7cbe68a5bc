package catalog

import (
	"github.com/samber/lo"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// Range is an inclusive integer bound.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Options describes the configuration surface a UI should offer.
type Options struct {
	Styles     []string            `json:"styles" yaml:"styles"`
	Budgets    []int               `json:"budgets_usd" yaml:"budgets_usd"`
	Days       Range               `json:"days" yaml:"days"`
	Companions Range               `json:"companions" yaml:"companions"`
	Currencies []string            `json:"currencies" yaml:"currencies"`
	Defaults   domain.TravelConfig `json:"defaults" yaml:"defaults"`
}

func TravelOptions() Options {
	return Options{
		Styles: lo.Map(domain.Styles, func(s domain.TravelStyle, _ int) string {
			return string(s)
		}),
		Budgets:    append([]int(nil), domain.BudgetOptions...),
		Days:       Range{Min: domain.MinDays, Max: domain.MaxDays},
		Companions: Range{Min: domain.MinCompanions, Max: domain.MaxCompanions},
		Currencies: Currencies(),
		Defaults:   domain.DefaultTravelConfig(),
	}
}
