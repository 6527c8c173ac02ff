package principal

import (
	"iter"

	"github.com/MrEthical07/tokenauth/internal/ordered"
	"github.com/MrEthical07/tokenauth/permission"
)

// SchemeBearer is the authentication scheme set on principals decoded from tokens.
const SchemeBearer = "Bearer"

// Principal is an authenticated identity. Parameter values are shared with
// the builder that produced it and must be treated as read-only.
type Principal struct {
	subject     string
	scheme      string
	root        bool
	permissions permission.Set
	parameters  *ordered.Map[any]
}

// Subject returns the account identifier.
func (p Principal) Subject() string { return p.subject }

// Scheme returns the authentication scheme, empty when not set.
func (p Principal) Scheme() string { return p.scheme }

// IsRoot reports whether the principal has root privileges.
func (p Principal) IsRoot() bool { return p.root }

// Permissions returns the ordered permission set.
func (p Principal) Permissions() permission.Set { return p.permissions }

// HasPermission reports whether name is in the permission set.
func (p Principal) HasPermission(name string) bool { return p.permissions.Has(name) }

// Parameter returns the named parameter value.
func (p Principal) Parameter(name string) (any, bool) { return p.parameters.Get(name) }

// Parameters yields parameters in insertion order.
func (p Principal) Parameters() iter.Seq2[string, any] { return p.parameters.All() }

// ParameterNames returns parameter names in insertion order.
func (p Principal) ParameterNames() []string { return p.parameters.Keys() }

// ParameterCount returns the number of parameters.
func (p Principal) ParameterCount() int { return p.parameters.Len() }
