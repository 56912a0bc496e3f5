package detect

import (
	"strings"
	"testing"

	"github.com/editalradar/editalradar/internal/opportunity"
)

func TestShouldPromote(t *testing.T) {
	t.Parallel()

	filler := strings.Repeat("<p>conteúdo institucional</p>", 40)

	tests := []struct {
		name      string
		minBytes  int
		selectors []string
		keywords  []string
		resp      opportunity.FetchResponse
		want      bool
	}{
		{
			name:     "tiny body promotes",
			minBytes: 512,
			resp:     opportunity.FetchResponse{Body: []byte("<html></html>")},
			want:     true,
		},
		{
			name:     "large body without signals stays plain",
			minBytes: 64,
			resp:     opportunity.FetchResponse{Body: []byte("<html><body>" + filler + "</body></html>")},
			want:     false,
		},
		{
			name:     "shell keyword promotes regardless of size",
			minBytes: 8,
			keywords: DefaultKeywords,
			resp: opportunity.FetchResponse{
				Body: []byte("<html><body>Carregando..." + filler + "</body></html>"),
			},
			want: true,
		},
		{
			name:      "missing required selector promotes",
			selectors: []string{"div.resultados"},
			resp: opportunity.FetchResponse{
				Body: []byte("<html><body>" + filler + "</body></html>"),
			},
			want: true,
		},
		{
			name:      "present selector stays plain",
			selectors: []string{"div.resultados"},
			resp: opportunity.FetchResponse{
				Body: []byte(`<html><body><div class="resultados">` + filler + `</div></body></html>`),
			},
			want: false,
		},
		{
			name:     "already rendered response is never promoted",
			minBytes: 512,
			resp: opportunity.FetchResponse{
				Body:         []byte("<html></html>"),
				UsedHeadless: true,
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := NewHeuristicDetector(tc.minBytes, tc.selectors, tc.keywords)
			if got := d.ShouldPromote(tc.resp); got != tc.want {
				t.Errorf("ShouldPromote() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNilDetectorNeverPromotes(t *testing.T) {
	t.Parallel()

	var d *HeuristicDetector
	if d.ShouldPromote(opportunity.FetchResponse{Body: []byte("x")}) {
		t.Error("nil detector promoted a response")
	}
}
