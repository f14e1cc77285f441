package media

import "testing"

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1700000000/Alcotrade/shabo.jpg":            "Alcotrade/shabo",
		"https://res.cloudinary.com/demo/image/upload/q_auto/f_auto/v12/Alcotrade/a/b.WEBP":       "Alcotrade/a/b",
		"https://res.cloudinary.com/demo/image/upload/Alcotrade/no-version.jpg":                   "",
		"https://example.com/logo.png":                                                            "",
		"https://res.cloudinary.com/demo/image/upload/v1/Alcotrade/site-settings/site-og.png":     "Alcotrade/site-settings/site-og",
	}
	for raw, want := range cases {
		if got := PublicIDFromURL(raw); got != want {
			t.Fatalf("PublicIDFromURL(%q) = %q, want %q", raw, got, want)
		}
	}
}
