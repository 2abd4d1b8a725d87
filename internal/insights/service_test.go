package insights

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// mockGenerator is a TextGenerator whose response depends on the prompt,
// so the two concurrent calls can be steered independently.
type mockGenerator struct {
	respond func(prompt string) (string, error)
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.respond(prompt)
}

func isDateRangesPrompt(prompt string) bool {
	return strings.Contains(prompt, "dateRanges")
}

func newTestService(respond func(prompt string) (string, error)) *Service {
	return NewService(&mockGenerator{respond: respond}, zerolog.New(io.Discard))
}

const validRangesJSON = `{"dateRanges": [
	{"startDate": "2024-01-01", "endDate": "2024-01-31", "reason": "period of highest spending"},
	{"startDate": "2024-02-01", "endDate": "2024-02-29", "reason": "most volatile period"},
	{"startDate": "2024-03-01", "endDate": "2024-03-31", "reason": "most recent month"}
]}`

func TestDescribeVisualizations_Valid(t *testing.T) {
	svc := newTestService(func(string) (string, error) {
		return `{"visualizationDescriptions": "A bar chart of top categories and a line graph of daily spend."}`, nil
	})

	got, err := svc.DescribeVisualizations(context.Background(), "date,amount\n2024-01-01,-1\n")
	if err != nil {
		t.Fatalf("DescribeVisualizations() error = %v", err)
	}
	if got.Descriptions == "" {
		t.Error("expected a non-empty description")
	}
}

func TestDescribeVisualizations_FencedResponse(t *testing.T) {
	svc := newTestService(func(string) (string, error) {
		return "```json\n{\"visualizationDescriptions\": \"charts\"}\n```", nil
	})

	got, err := svc.DescribeVisualizations(context.Background(), "csv")
	if err != nil {
		t.Fatalf("DescribeVisualizations() error = %v", err)
	}
	if got.Descriptions != "charts" {
		t.Errorf("Descriptions = %q, want 'charts'", got.Descriptions)
	}
}

func TestDescribeVisualizations_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"wrong field name", `{"description": "x"}`},
		{"wrong field type", `{"visualizationDescriptions": 42}`},
		{"empty field", `{"visualizationDescriptions": "  "}`},
		{"not an object", `["a", "b"]`},
		{"not JSON at all", `here are some charts you could draw`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(func(string) (string, error) {
				return tt.response, nil
			})

			_, err := svc.DescribeVisualizations(context.Background(), "csv")
			var adapterErr *AdapterError
			if !errors.As(err, &adapterErr) {
				t.Fatalf("error = %v, want *AdapterError", err)
			}
			if adapterErr.Op != "describe_visualizations" {
				t.Errorf("Op = %q, want describe_visualizations", adapterErr.Op)
			}
		})
	}
}

func TestSuggestDateRanges_Valid(t *testing.T) {
	svc := newTestService(func(string) (string, error) {
		return validRangesJSON, nil
	})

	got, err := svc.SuggestDateRanges(context.Background(), "csv")
	if err != nil {
		t.Fatalf("SuggestDateRanges() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d ranges, want 3", len(got))
	}
	if got[0].StartDate != "2024-01-01" || got[0].Reason != "period of highest spending" {
		t.Errorf("got[0] = %+v", got[0])
	}
}

func TestSuggestDateRanges_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"missing field", `{"ranges": []}`},
		{"not an array", `{"dateRanges": "2024"}`},
		{"empty array", `{"dateRanges": []}`},
		{"element not an object", `{"dateRanges": ["2024-01-01"]}`},
		{"element missing reason", `{"dateRanges": [{"startDate": "a", "endDate": "b"}]}`},
		{"element field wrong type", `{"dateRanges": [{"startDate": "a", "endDate": "b", "reason": 3}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(func(string) (string, error) {
				return tt.response, nil
			})

			_, err := svc.SuggestDateRanges(context.Background(), "csv")
			var adapterErr *AdapterError
			if !errors.As(err, &adapterErr) {
				t.Fatalf("error = %v, want *AdapterError", err)
			}
		})
	}
}

func TestSuggestDateRanges_CallFailure(t *testing.T) {
	svc := newTestService(func(string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	})

	_, err := svc.SuggestDateRanges(context.Background(), "csv")
	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("error = %v, want *AdapterError", err)
	}
}

func TestGenerate_IndependentFailure(t *testing.T) {
	// The visualization call fails, the date range call succeeds; the
	// bundle must carry the surviving result alongside the error.
	svc := newTestService(func(prompt string) (string, error) {
		if isDateRangesPrompt(prompt) {
			return validRangesJSON, nil
		}
		return "", fmt.Errorf("model unavailable")
	})

	bundle := svc.Generate(context.Background(), "csv")

	if bundle.VisualizationsErr == nil {
		t.Error("expected VisualizationsErr, got nil")
	}
	if bundle.Visualizations != nil {
		t.Error("expected no visualization result")
	}
	if bundle.DateRangesErr != nil {
		t.Errorf("DateRangesErr = %v, want nil", bundle.DateRangesErr)
	}
	if len(bundle.DateRanges) != 3 {
		t.Errorf("got %d ranges, want 3", len(bundle.DateRanges))
	}
}

func TestGenerate_BothSucceed(t *testing.T) {
	svc := newTestService(func(prompt string) (string, error) {
		if isDateRangesPrompt(prompt) {
			return validRangesJSON, nil
		}
		return `{"visualizationDescriptions": "charts"}`, nil
	})

	bundle := svc.Generate(context.Background(), "csv")
	if bundle.VisualizationsErr != nil || bundle.DateRangesErr != nil {
		t.Fatalf("unexpected errors: %v / %v", bundle.VisualizationsErr, bundle.DateRangesErr)
	}
	if bundle.Visualizations == nil || len(bundle.DateRanges) != 3 {
		t.Errorf("bundle = %+v", bundle)
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading chatter", "Here you go:\n{\"a\": 1}", `{"a": 1}`},
		{"trailing chatter", "{\"a\": 1}\nHope that helps!", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.input); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
