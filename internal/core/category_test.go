package core

import "testing"

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Restaurantes", CategoryRestaurantes},
		{"Ocio", CategoryOcio},
		{"Otros", CategoryOtros},
		{"Viajes", CategoryOtros},   // legacy value
		{"comida", CategoryOtros},   // case sensitive, not a member
		{"", CategoryOtros},
	}
	for i, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Fatalf("case %d: NormalizeCategory(%q) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestCategoryEmoji(t *testing.T) {
	for _, c := range Categories() {
		if c.Emoji() == "" {
			t.Fatalf("category %q has no emoji", c)
		}
	}
	if Category("Nope").Emoji() != defaultEmoji {
		t.Fatal("unknown category should get the default emoji")
	}
}

func TestCurrencyValid(t *testing.T) {
	for _, c := range Currencies() {
		if !c.Valid() {
			t.Fatalf("currency %q should be valid", c)
		}
	}
	if Currency("BTC").Valid() {
		t.Fatal("BTC should not be valid")
	}
}
