// Package catalog holds the static lists offered to the user interface:
// quick questions and the trip option sets.
package catalog

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// QuickQuestion is a one-click prompt shortcut.
type QuickQuestion struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

type questionTemplate struct {
	label string
	tmpl  *template.Template
}

func mustQuestion(label, text string) questionTemplate {
	return questionTemplate{
		label: label,
		tmpl:  template.Must(template.New(label).Parse(text)),
	}
}

// Order is the stable index used by the UI.
var questions = []questionTemplate{
	mustQuestion("Recommend a destination",
		"Recommend a destination for a {{.Style}} trip of {{.Days}} days for {{.Travellers}} people with {{.BudgetPerPerson}} USD per person."),
	mustQuestion("Day-by-day itinerary",
		"Plan a day-by-day itinerary for {{.Days}} days focused on {{.Style}} experiences."),
	mustQuestion("Budget breakdown",
		"Break down a budget of {{.BudgetPerPerson}} USD per person into flights, lodging, food and activities."),
	mustQuestion("Packing list",
		"What should I pack for a {{.Days}}-day {{.Style}} trip?"),
	mustQuestion("Local food",
		"Which local dishes and restaurants should we not miss?"),
	mustQuestion("Travel tips",
		"Give me practical tips on transport, safety and etiquette for this trip."),
}

// QuickQuestions renders the whole catalog for cfg.
func QuickQuestions(cfg domain.TravelConfig) []QuickQuestion {
	return lo.Map(questions, func(q questionTemplate, i int) QuickQuestion {
		return QuickQuestion{Index: i, Label: q.label, Text: render(q.tmpl, cfg)}
	})
}

// QuickQuestionText renders the question at index for cfg.
func QuickQuestionText(index int, cfg domain.TravelConfig) (string, error) {
	if index < 0 || index >= len(questions) {
		return "", fmt.Errorf("quick question %d: %w", index, domain.ErrUnknownQuickQuestion)
	}
	return render(questions[index].tmpl, cfg), nil
}

// Len is the number of quick questions in the catalog.
func Len() int {
	return len(questions)
}

func render(t *template.Template, cfg domain.TravelConfig) string {
	var b strings.Builder
	if err := t.Execute(&b, cfg); err != nil {
		return ""
	}
	return b.String()
}
