package extract

import (
	"testing"

	"github.com/editalradar/editalradar/internal/opportunity"
)

func TestPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want *opportunity.Period
	}{
		{
			name: "explicit numeric range",
			text: "Inscrições: 11/08/2025 a 30/09/2025",
			want: &opportunity.Period{Start: "11/08/2025", End: "30/09/2025"},
		},
		{
			name: "range with ate separator",
			text: "De 01/03/2025 até 15/04/2025",
			want: &opportunity.Period{Start: "01/03/2025", End: "15/04/2025"},
		},
		{
			name: "range with dash",
			text: "Período: 05/02/25 – 20/03/25",
			want: &opportunity.Period{Start: "05/02/25", End: "20/03/25"},
		},
		{
			name: "keyword scoped single date",
			text: "Prazo final para submissão: 30/09/2025.",
			want: &opportunity.Period{Start: "30/09/2025"},
		},
		{
			name: "bare single date as last numeric resort",
			text: "Resultado divulgado em 12/12/2025 no portal.",
			want: &opportunity.Period{Start: "12/12/2025"},
		},
		{
			name: "long form range when numeric absent",
			text: "Inscrições de 11 de agosto de 2025 a 30 de setembro de 2025",
			want: &opportunity.Period{Start: "11 de agosto de 2025", End: "30 de setembro de 2025"},
		},
		{
			name: "no date-like substring",
			text: "Página institucional sem datas.",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Period(tt.text)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Period(%q) = %+v, want nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Period(%q) = nil, want %+v", tt.text, tt.want)
			}
			if got.Start != tt.want.Start || got.End != tt.want.End {
				t.Fatalf("Period(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPeriodPrefersRangeOverSingle(t *testing.T) {
	t.Parallel()

	// Both the range pattern and the keyword pattern could match here;
	// the range must win because it is tried first.
	got := Period("Prazo de inscrição: 01/06/2025 a 31/07/2025")
	if got == nil || got.End == "" {
		t.Fatalf("expected full range, got %+v", got)
	}
}
