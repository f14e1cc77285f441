// Package slug builds URL slugs for brands and products. Ukrainian and
// Russian names are transliterated with a fixed table so existing slugs stay
// stable.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// MaxLength bounds the base slug before any numeric suffix.
const MaxLength = 80

const fallback = "item"

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "h", 'ґ': "g", 'д': "d", 'е': "e",
	'є': "ie", 'ж': "zh", 'з': "z", 'и': "y", 'і': "i", 'ї': "i", 'й': "i",
	'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ю': "iu", 'я': "ia", 'ь': "", 'ъ': "",
	'ё': "e", 'э': "e", 'ы': "y",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a display name into its base slug. It may return "" when the
// name has nothing transliterable.
func Make(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if r >= 0x0400 && r <= 0x04FF {
			if latin, ok := cyrillic[r]; ok {
				b.WriteString(latin)
				continue
			}
		}
		b.WriteRune(r)
	}

	out := nonAlnum.ReplaceAllString(b.String(), "-")
	out = strings.Trim(out, "-")
	if len(out) > MaxLength {
		out = out[:MaxLength]
	}
	return out
}

// Base returns Make(name), falling back to gosimple transliteration and then
// to a fixed placeholder so the result is never empty.
func Base(name string) string {
	if s := Make(name); s != "" {
		return s
	}
	if s := gosimple.Make(name); s != "" {
		if len(s) > MaxLength {
			s = strings.Trim(s[:MaxLength], "-")
		}
		if s != "" {
			return s
		}
	}
	return fallback
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique probes base, base-1, base-2, ... until exists reports a free value.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = fallback
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
