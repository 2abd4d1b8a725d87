package ingest

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string // normalized YYYY-MM-DD, empty for error
		wantErr bool
	}{
		{input: "2024-01-05", want: "2024-01-05"},
		{input: "2024/01/05", want: "2024-01-05"},
		{input: "01/15/2024", want: "2024-01-15"},
		{input: "1/5/2024", want: "2024-01-05"},
		{input: "25/12/2024", want: "2024-12-25"}, // day-first fallback
		{input: "Jan 5, 2024", want: "2024-01-05"},
		{input: "January 5, 2024", want: "2024-01-05"},
		{input: "5 Jan 2024", want: "2024-01-05"},
		{input: "2024-01-05 13:45:00", want: "2024-01-05"},
		{input: "2024-01-05T13:45:00Z", want: "2024-01-05"},
		{input: "  2024-01-05  ", want: "2024-01-05"},
		{input: "", wantErr: true},
		{input: "yesterday", wantErr: true},
		{input: "2024-13-45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDate(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDate(%q) error = %v", tt.input, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("parseDate(%q) = %s, want %s", tt.input, got.Format(time.DateOnly), tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "-4.50", want: -4.5},
		{input: "2500", want: 2500},
		{input: "$12.34", want: 12.34},
		{input: "$-12.34", want: -12.34},
		{input: "-$12.34", want: -12.34},
		{input: "1,234.56", want: 1234.56},
		{input: "£1,000", want: 1000},
		{input: "EUR 9.99", want: 9.99},
		{input: "(42)", want: 42}, // parentheses stripped, sign not inferred
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-", wantErr: true},
		{input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseAmount(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
