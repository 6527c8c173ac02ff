package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/tokenauth/internal/ordered"
)

const (
	ClaimIssuer     = "iss"
	ClaimSubject    = "sub"
	ClaimAudience   = "aud"
	ClaimIssuedAt   = "iat"
	ClaimExpiration = "exp"
	ClaimNotBefore  = "nbf"
	ClaimTokenID    = "jti"

	// ClaimRoot carries the principal's root flag.
	ClaimRoot = "ATH$root"
	// ClaimPermissions carries the principal's permission names as a string array.
	ClaimPermissions = "ATH$prms"
)

// Claims is an ordered claim set. It serializes in insertion order and
// implements [jwt.Claims] so the parser can validate exp, nbf and iat.
//
// Decoded integral numbers are int64, other numbers float64, objects
// map[string]any and arrays []any.
type Claims struct {
	values ordered.Map[any]
}

var _ jwt.Claims = (*Claims)(nil)

// NewClaims returns an empty claim set.
func NewClaims() *Claims {
	return &Claims{}
}

// Set stores a claim. An existing claim is replaced in place.
func (c *Claims) Set(name string, value any) {
	c.values.Set(name, value)
}

func (c *Claims) Get(name string) (any, bool) {
	return c.values.Get(name)
}

func (c *Claims) Has(name string) bool {
	return c.values.Has(name)
}

func (c *Claims) Len() int {
	return c.values.Len()
}

// Names returns claim names in order.
func (c *Claims) Names() []string {
	return c.values.Keys()
}

// All yields claims in order.
func (c *Claims) All() iter.Seq2[string, any] {
	return c.values.All()
}

// StringClaim returns a string claim. ok is false when absent or not a string.
func (c *Claims) StringClaim(name string) (value string, ok bool) {
	v, present := c.values.Get(name)
	if !present {
		return "", false
	}
	value, ok = v.(string)
	return value, ok
}

func (c *Claims) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for name, value := range c.values.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal claim %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("claims must be a JSON object")
	}

	c.values = ordered.Map[any]{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return errors.New("claim name must be a string")
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode claim %q: %w", name, err)
		}
		c.values.Set(name, normalizeValue(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = normalizeValue(x[i])
		}
		return x
	case map[string]any:
		for k, item := range x {
			x[k] = normalizeValue(item)
		}
		return x
	default:
		return v
	}
}

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return c.numericDate(ClaimExpiration)
}

func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return c.numericDate(ClaimIssuedAt)
}

func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return c.numericDate(ClaimNotBefore)
}

func (c *Claims) GetIssuer() (string, error) {
	return c.stringClaim(ClaimIssuer)
}

func (c *Claims) GetSubject() (string, error) {
	return c.stringClaim(ClaimSubject)
}

func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	v, ok := c.values.Get(ClaimAudience)
	if !ok || v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case string:
		return jwt.ClaimStrings{x}, nil
	case []string:
		return jwt.ClaimStrings(x), nil
	case jwt.ClaimStrings:
		return x, nil
	case []any:
		out := make(jwt.ClaimStrings, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s contains a non-string entry", jwt.ErrInvalidType, ClaimAudience)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a string or string array", jwt.ErrInvalidType, ClaimAudience)
	}
}

func (c *Claims) stringClaim(name string) (string, error) {
	v, ok := c.values.Get(name)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", jwt.ErrInvalidType, name)
	}
	return s, nil
}

func (c *Claims) numericDate(name string) (*jwt.NumericDate, error) {
	v, ok := c.values.Get(name)
	if !ok || v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case *jwt.NumericDate:
		return x, nil
	case jwt.NumericDate:
		return &x, nil
	case time.Time:
		return &jwt.NumericDate{Time: x.Truncate(time.Millisecond)}, nil
	case int64:
		return dateFromSeconds(name, float64(x))
	case int:
		return dateFromSeconds(name, float64(x))
	case float64:
		return dateFromSeconds(name, x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a number", jwt.ErrInvalidType, name)
		}
		return dateFromSeconds(name, f)
	default:
		return nil, fmt.Errorf("%w: %s must be a numeric date", jwt.ErrInvalidType, name)
	}
}

// Numeric dates are limited to years 1 through 9999.
const (
	minDateSeconds = -62135596800
	maxDateSeconds = 253402300799
)

// dateFromSeconds converts a NumericDate in seconds, rounded to the
// millisecond.
func dateFromSeconds(name string, sec float64) (*jwt.NumericDate, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return nil, fmt.Errorf("%w: %s is not finite", jwt.ErrInvalidType, name)
	}
	if sec < minDateSeconds || sec > maxDateSeconds {
		return nil, fmt.Errorf("%w: %s is out of range", jwt.ErrInvalidType, name)
	}
	whole, frac := math.Modf(sec)
	ms := int64(math.Round(frac * 1000))
	return &jwt.NumericDate{Time: time.Unix(int64(whole), ms*int64(time.Millisecond))}, nil
}

// numericDateValue encodes t as seconds with millisecond precision: an
// integer for whole seconds, a decimal fraction otherwise.
func numericDateValue(t time.Time) any {
	ms := t.UnixMilli()
	if ms%1000 == 0 {
		return ms / 1000
	}
	return float64(ms) / 1000
}
