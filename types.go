package tokenauth

import "time"

// IssuedToken is the result of [Engine.Issue].
type IssuedToken struct {
	Token   string
	TokenID string
	// IssuedAt and ExpiresAt have millisecond precision. ExpiresAt is zero when
	// the token never expires.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TTL returns the token lifetime, zero when it never expires.
func (t IssuedToken) TTL() time.Duration {
	if t.ExpiresAt.IsZero() {
		return 0
	}
	return t.ExpiresAt.Sub(t.IssuedAt)
}
