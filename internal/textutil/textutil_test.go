package textutil

import "testing"

func TestNormalizeSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses runs", in: "Chamada   CNPq\t2025", want: "Chamada CNPq 2025"},
		{name: "trims edges", in: "  edital \n", want: "edital"},
		{name: "empty", in: "", want: ""},
		{name: "newlines inside", in: "linha um\nlinha dois", want: "linha um linha dois"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpace(tt.in); got != tt.want {
				t.Fatalf("NormalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	got := StripTags(`<div class="x"><b>Edital</b> 12/2025<br>aberto</div>`)
	want := "Edital 12/2025 aberto"
	if got != want {
		t.Fatalf("StripTags = %q, want %q", got, want)
	}
}

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Seleção", want: "selecao"},
		{in: "CHAMADA PÚBLICA", want: "chamada publica"},
		{in: "Inscrições", want: "inscricoes"},
		{in: "plain", want: "plain"},
	}

	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Fatalf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	t.Parallel()

	if !ContainsFold("Processo de SELEÇÃO 2025", "selecao") {
		t.Fatal("expected diacritic-insensitive match")
	}
	if ContainsFold("Notícias gerais", "edital") {
		t.Fatal("unexpected match")
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips query", in: "https://x/a?y=1", want: "https://x/a"},
		{name: "strips fragment", in: "https://x/a#frag", want: "https://x/a"},
		{name: "already canonical", in: "https://x/a", want: "https://x/a"},
		{name: "lowercases host", in: "https://WWW.Example.COM/A", want: "https://www.example.com/A"},
		{name: "removes default port", in: "http://example.com:80/p", want: "http://example.com/p"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalURL(tt.in); got != tt.want {
				t.Fatalf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	got := ResolveURL("https://www.gov.br/cnpq/chamadas", "/anexo/edital.pdf")
	want := "https://www.gov.br/anexo/edital.pdf"
	if got != want {
		t.Fatalf("ResolveURL = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("curto", 10); got != "curto" {
		t.Fatalf("Truncate short = %q", got)
	}
	if got := Truncate("um título bastante longo", 9); got != "um título…" {
		t.Fatalf("Truncate long = %q", got)
	}
}
