package config

import "encoding/json"

const redactedPlaceholder = "[REDACTED]"

// SensitiveString is a string whose value must never leak into logs or
// serialized output. String() and MarshalJSON redact it; callers that need
// the real value use Value() explicitly.
type SensitiveString string

// String returns a redacted representation, keeping empty values empty so
// unset secrets render as absent rather than redacted.
func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redactedPlaceholder
}

// Value returns the actual secret value.
func (s SensitiveString) Value() string {
	return string(s)
}

// MarshalJSON serializes the redacted form.
func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a plain JSON string.
func (s *SensitiveString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SensitiveString(raw)
	return nil
}
