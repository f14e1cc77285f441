package slug

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Хортиця Платинум":    "khortytsia-platynum",
		"  Jack Daniel's  ":   "jack-daniel-s",
		"Щедрий Ґазда":        "schedryi-gazda",
		"Їжак & Єнот":         "izhak-ienot",
		"Объём":               "obem",
		"---":                 "",
		"Nemiroff 0,5 л":      "nemiroff-0-5-l",
		"Чорний   Лев 2024!!": "chornyi-lev-2024",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeTruncates(t *testing.T) {
	got := Make(strings.Repeat("a", 100))
	if len(got) != MaxLength {
		t.Fatalf("expected %d chars, got %d", MaxLength, len(got))
	}
}

func TestBaseFallsBack(t *testing.T) {
	if got := Base("!!!"); got != "item" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := Base("日本"); got == "" || got == "item" {
		t.Fatalf("expected gosimple transliteration, got %q", got)
	}
	if got := Base("Café"); got != "caf" {
		t.Fatalf("expected fixed-table result to win, got %q", got)
	}
}

func TestUniqueProbesSuffixes(t *testing.T) {
	taken := map[string]bool{"brand": true, "brand-1": true}
	var probes []string
	got, err := Unique(context.Background(), "brand", func(_ context.Context, c string) (bool, error) {
		probes = append(probes, c)
		return taken[c], nil
	})
	if err != nil {
		t.Fatalf("Unique returned error: %v", err)
	}
	if got != "brand-2" {
		t.Fatalf("expected brand-2, got %q", got)
	}
	if strings.Join(probes, ",") != "brand,brand-1,brand-2" {
		t.Fatalf("unexpected probe order %v", probes)
	}
}

func TestUniquePropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
