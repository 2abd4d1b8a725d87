package ingest

import (
	"reflect"
	"testing"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "2024-01-05,Coffee,Food,-4.50",
			want: []string{"2024-01-05", "Coffee", "Food", "-4.50"},
		},
		{
			name: "quoted field with comma",
			line: `2024-01-05,"Groceries, Weekly",Food,-52.30`,
			want: []string{"2024-01-05", "Groceries, Weekly", "Food", "-52.30"},
		},
		{
			name: "quotes stripped from output",
			line: `"2024-01-05","Coffee","Food","-4.50"`,
			want: []string{"2024-01-05", "Coffee", "Food", "-4.50"},
		},
		{
			name: "empty fields preserved",
			line: "2024-01-05,,,-4.50",
			want: []string{"2024-01-05", "", "", "-4.50"},
		},
		{
			name: "surrounding whitespace trimmed",
			line: " 2024-01-05 ,  Coffee ,Food,  -4.50",
			want: []string{"2024-01-05", "Coffee", "Food", "-4.50"},
		},
		{
			name: "single field",
			line: "lonely",
			want: []string{"lonely"},
		},
		{
			name: "trailing comma yields empty field",
			line: "a,b,",
			want: []string{"a", "b", ""},
		},
		{
			name: "doubled quotes are dropped",
			line: `2024-01-05,"say ""hi"", twice",-1`,
			want: []string{"2024-01-05", "say hi, twice", "-1"},
		},
		{
			name: "unterminated quote swallows rest of line",
			line: `2024-01-05,"oops,-1`,
			want: []string{"2024-01-05", "oops,-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitFields(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitFields(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
