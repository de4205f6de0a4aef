package keys

import (
	"strings"

	masker "github.com/goliatone/go-masker"
)

// maskPlaceholder is returned for values too short to partially reveal.
const maskPlaceholder = "****"

var maskedFields = []string{
	"api_key", "apikey", "apiKey",
	"secret", "client_secret", "token", "access_token",
}

func init() {
	// Register key-ish fields so struct masking uses sane defaults.
	for _, field := range maskedFields {
		masker.Default.RegisterMaskField(field, "preserveEnds(0,4)")
	}
}

// Mask produces a display-safe rendering of a secret: last four characters
// with the rest asterisk-padded, or a fixed placeholder when the value is too
// short to reveal anything safely.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return maskPlaceholder
	}
	if masked, err := masker.Default.String("preserveEnds(0,4)", value); err == nil && masked != value {
		return masked
	}
	// Fallback masking if no rule is registered.
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
