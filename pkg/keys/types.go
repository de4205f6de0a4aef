package keys

import (
	"fmt"
	"strings"
	"time"
)

// Source tags which tier supplied a resolved key.
type Source string

const (
	SourceDatabase        Source = "database"
	SourceEnvironment     Source = "environment"
	SourcePlatformSecrets Source = "platform_secrets"
	SourceNotFound        Source = "not_found"
)

// ServiceType identifies a third-party integration the dashboard talks to.
type ServiceType string

const (
	ServiceStripe       ServiceType = "stripe"
	ServiceOpenAI       ServiceType = "openai"
	ServiceAnthropic    ServiceType = "anthropic"
	ServiceGoogleSheets ServiceType = "google_sheets"
	ServiceExchangeRate ServiceType = "exchangerate"
)

// ResolvedKey is the result of one resolution attempt. Masked and IsValid are
// derived from Value at construction; the struct is not mutated afterwards
// except for scrubbing the guarded copy handed out by WithKey.
type ResolvedKey struct {
	Value        string      `json:"-"`
	Source       Source      `json:"source"`
	ServiceType  ServiceType `json:"service_type"`
	KeyName      string      `json:"key_name"`
	MaskedValue  string      `json:"masked_value"`
	IsValid      bool        `json:"is_valid"`
	ErrorMessage string      `json:"error_message,omitempty"`
	ResolvedAt   time.Time   `json:"resolved_at"`
}

func newResolvedKey(keyName string, service ServiceType, value string, source Source) ResolvedKey {
	return ResolvedKey{
		Value:       value,
		Source:      source,
		ServiceType: service,
		KeyName:     keyName,
		MaskedValue: Mask(value),
		IsValid:     value != "",
		ResolvedAt:  time.Now().UTC(),
	}
}

func notFound(keyName string, service ServiceType, msg string) ResolvedKey {
	return ResolvedKey{
		Source:       SourceNotFound,
		ServiceType:  service,
		KeyName:      keyName,
		IsValid:      false,
		ErrorMessage: msg,
		ResolvedAt:   time.Now().UTC(),
	}
}

// scrubFiller overwrites guarded values before they are cleared.
const scrubFiller = "0"

// scrub replaces Value with a filler of equal length, then clears it. Only
// the guarded copy owned by WithKey is ever scrubbed; cached copies keep
// their own value.
func (k *ResolvedKey) scrub() {
	if k.Value == "" {
		return
	}
	k.Value = strings.Repeat(scrubFiller, len(k.Value))
	k.Value = ""
}

// String renders a display-safe summary. The raw value is never included.
func (k ResolvedKey) String() string {
	if !k.IsValid {
		return fmt.Sprintf("%s/%s: not found", k.ServiceType, k.KeyName)
	}
	return fmt.Sprintf("%s/%s: %s (from %s)", k.ServiceType, k.KeyName, k.MaskedValue, k.Source)
}

// cacheKey is the structured pair used for session cache entries. Keeping the
// dimensions separate makes partial invalidation exact instead of a substring
// match over a concatenated key.
type cacheKey struct {
	KeyName string
	Service ServiceType
}
