package entity

import "errors"

// ErrEmptySecret is returned when the base secret is missing.
var ErrEmptySecret = errors.New("secret must not be empty")

// Secret is the process-wide base secret. It is created once at startup and
// never mutated, so it is safe to share between concurrent requests.
type Secret struct {
	base []byte
}

// NewSecret copies raw into a new Secret.
func NewSecret(raw string) (Secret, error) {
	if raw == "" {
		return Secret{}, ErrEmptySecret
	}
	return Secret{base: []byte(raw)}, nil
}

// Derive returns the effective secret for id, the base secret followed by the
// bytes of id. The result is a fresh slice that callers may modify freely.
func (s Secret) Derive(id string) []byte {
	out := make([]byte, 0, len(s.base)+len(id))
	out = append(out, s.base...)
	return append(out, id...)
}

// IsZero reports whether the secret was never initialized.
func (s Secret) IsZero() bool {
	return len(s.base) == 0
}
