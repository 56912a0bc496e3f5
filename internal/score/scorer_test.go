package score

import "testing"

var testMarkers = []string{"chamada", "edital", "seleção", "bolsas", "fomento"}

func TestScore(t *testing.T) {
	t.Parallel()

	s := New(testMarkers)

	tests := []struct {
		name string
		in   Input
		min  int
		max  int
	}{
		{
			name: "genuine announcement scores high",
			in: Input{
				Title:     "CHAMADA PÚBLICA CNPq Nº 12/2025",
				URL:       "https://www.gov.br/cnpq/edital/12-2025",
				HasPeriod: true,
			},
			min: 3,
			max: 6,
		},
		{
			name: "plain news item scores zero",
			in:   Input{Title: "Notícias do CNPq"},
			min:  0,
			max:  0,
		},
		{
			name: "title with two markers",
			in:   Input{Title: "Edital de seleção de bolsistas"},
			min:  2,
			max:  2,
		},
		{
			name: "period only",
			in:   Input{Title: "Resultado divulgado", HasPeriod: true},
			min:  1,
			max:  1,
		},
		{
			name: "excerpt marker counts once",
			in: Input{
				Title:   "Aviso aos pesquisadores",
				Excerpt: "prorrogado o prazo do edital e da chamada conjunta",
			},
			min: 1,
			max: 1,
		},
		{
			name: "diacritic insensitive title marker",
			in:   Input{Title: "Processo de SELECAO simplificada"},
			min:  1,
			max:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.in)
			if got < tt.min || got > tt.max {
				t.Fatalf("Score(%+v) = %d, want within [%d, %d]", tt.in, got, tt.min, tt.max)
			}
		})
	}
}

func TestScoreNavigationNoiseBelowThreshold(t *testing.T) {
	t.Parallel()

	s := New(testMarkers)

	// A navigation link whose URL alone matched the locator: one point
	// from the URL, nothing else. Must fall below the default threshold.
	got := s.Score(Input{
		Title: "Página inicial do portal",
		URL:   "https://x/portal/chamadas",
	})
	if got >= DefaultMinScore {
		t.Fatalf("navigation noise scored %d, want < %d", got, DefaultMinScore)
	}
}
