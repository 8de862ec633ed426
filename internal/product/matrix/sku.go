package matrix

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	tokenLen  = 3
	suffixLen = 4
	alphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SKUGenerator produces SKUs for newly synthesized variants.
type SKUGenerator interface {
	NewSKU(prefix, colorName, size string) string
}

// SKUFunc adapts a function to SKUGenerator.
type SKUFunc func(prefix, colorName, size string) string

func (f SKUFunc) NewSKU(prefix, colorName, size string) string { return f(prefix, colorName, size) }

// RandomSKU appends a short random suffix. Suffixes are not checked for
// uniqueness here; the product usecase does that before saving.
type RandomSKU struct{}

func (RandomSKU) NewSKU(prefix, colorName, size string) string {
	return FormatSKU(prefix, colorName, size, randomSuffix())
}

// FormatSKU renders [PREFIX-]COL-SIZ-SUFFIX.
func FormatSKU(prefix, colorName, size, suffix string) string {
	parts := make([]string, 0, 4)
	if p := normalizePrefix(prefix); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, token(colorName), token(size), suffix)
	return strings.Join(parts, "-")
}

func token(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == tokenLen {
			break
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

func normalizePrefix(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomSuffix() string {
	id := uuid.New()
	buf := make([]byte, suffixLen)
	for i := range buf {
		buf[i] = alphabet[int(id[i])%len(alphabet)]
	}
	return string(buf)
}
