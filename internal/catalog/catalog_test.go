package catalog

import "testing"

func TestMatch(t *testing.T) {
	c := Default()

	tests := []struct {
		name      string
		message   string
		wantMatch bool
		wantName  string
	}{
		{"exact name", "Corte de Cabelo", true, "Corte de Cabelo"},
		{"lowercase", "quero um corte de cabelo", true, "Corte de Cabelo"},
		{"inside sentence", "pode ser manicure amanhã?", true, "Manicure"},
		{"accented name", "queria fazer uma coloração", true, "Coloração"},
		{"no match", "quero um tratamento de pele", false, ""},
		{"empty", "   ", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ok := c.Match(tt.message)
			if ok != tt.wantMatch {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.message, ok, tt.wantMatch)
			}
			if ok && svc.Name != tt.wantName {
				t.Errorf("Match(%q) = %q, want %q", tt.message, svc.Name, tt.wantName)
			}
		})
	}
}

func TestMatchFirstEntryWins(t *testing.T) {
	c := New([]Service{
		{Name: "Escova"},
		{Name: "Escova Progressiva"},
	})

	// Known imprecision carried over from the reference behavior: the first
	// catalog entry that substring-matches wins, even when a later entry is
	// a more specific match.
	svc, ok := c.Match("quero uma escova progressiva")
	if !ok {
		t.Fatal("expected a match")
	}
	if svc.Name != "Escova" {
		t.Errorf("expected first-in-list match Escova, got %q", svc.Name)
	}
}

func TestNamesPreservesOrder(t *testing.T) {
	c := New([]Service{{Name: "A"}, {Name: "B"}, {Name: "C"}})
	names := c.Names()
	if len(names) != 3 || names[0] != "A" || names[2] != "C" {
		t.Errorf("Names() = %v", names)
	}
}
