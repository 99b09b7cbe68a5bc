package catalog

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/PabloGalante/tripmate/internal/domain"
)

func TestQuickQuestions_RenderConfig(t *testing.T) {
	cfg := domain.TravelConfig{Style: domain.StyleCity, BudgetPerPerson: 500, Days: 3, Companions: 1}

	qs := QuickQuestions(cfg)
	if len(qs) != Len() {
		t.Fatalf("got %d questions, want %d", len(qs), Len())
	}
	for i, q := range qs {
		if q.Index != i {
			t.Errorf("questions[%d].Index = %d", i, q.Index)
		}
		if q.Text == "" || q.Label == "" {
			t.Errorf("questions[%d] has empty label or text: %+v", i, q)
		}
	}

	first := qs[0].Text
	for _, want := range []string{"city", "3 days", "2 people", "500 USD"} {
		if !strings.Contains(first, want) {
			t.Errorf("first question %q does not contain %q", first, want)
		}
	}
}

func TestQuickQuestionText(t *testing.T) {
	cfg := domain.DefaultTravelConfig()

	got, err := QuickQuestionText(1, cfg)
	if err != nil {
		t.Fatalf("QuickQuestionText(1) error: %v", err)
	}
	if got != QuickQuestions(cfg)[1].Text {
		t.Errorf("QuickQuestionText(1) = %q, want catalog entry", got)
	}

	for _, idx := range []int{-1, Len(), 99} {
		if _, err := QuickQuestionText(idx, cfg); !errors.Is(err, domain.ErrUnknownQuickQuestion) {
			t.Errorf("QuickQuestionText(%d) error = %v, want ErrUnknownQuickQuestion", idx, err)
		}
	}
}

func TestTravelOptions(t *testing.T) {
	opts := TravelOptions()
	if len(opts.Styles) != len(domain.Styles) {
		t.Errorf("styles = %v", opts.Styles)
	}
	if opts.Days.Min != domain.MinDays || opts.Days.Max != domain.MaxDays {
		t.Errorf("days = %+v", opts.Days)
	}
	if err := opts.Defaults.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		from    string
		to      string
		want    float64
		wantErr bool
	}{
		{name: "usd to krw", amount: 300, from: "USD", to: "KRW", want: 414000},
		{name: "lowercase codes", amount: 10, from: "usd", to: " jpy ", want: 1500},
		{name: "krw to usd", amount: 1380, from: "KRW", to: "USD", want: 1},
		{name: "same currency", amount: 42, from: "EUR", to: "EUR", want: 42},
		{name: "unknown source", amount: 1, from: "XXX", to: "USD", wantErr: true},
		{name: "unknown target", amount: 1, from: "USD", to: "ABC", wantErr: true},
		{name: "negative amount", amount: -5, from: "USD", to: "KRW", wantErr: true},
		{name: "nan amount", amount: math.NaN(), from: "USD", to: "EUR", wantErr: true},
		{name: "infinite amount", amount: math.Inf(1), from: "USD", to: "EUR", wantErr: true},
		{name: "negative infinity", amount: math.Inf(-1), from: "USD", to: "EUR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.amount, tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Convert() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got.Result-tt.want) > 1e-6 {
				t.Errorf("Convert() result = %v, want %v", got.Result, tt.want)
			}
			if got.Formatted == "" {
				t.Error("Convert() formatted is empty")
			}
		})
	}
}

func TestCurrencies_Sorted(t *testing.T) {
	codes := Currencies()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("currencies not sorted: %v", codes)
		}
	}
}
