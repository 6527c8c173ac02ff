package principal

import (
	"iter"

	"github.com/MrEthical07/tokenauth/internal/ordered"
	"github.com/MrEthical07/tokenauth/permission"
)

// Builder assembles a [Principal]. Builders are not safe for concurrent use.
type Builder struct {
	subject     string
	scheme      string
	root        bool
	permissions []string
	parameters  *ordered.Map[any]
}

// NewBuilder starts a principal for subject.
func NewBuilder(subject string) *Builder {
	return &Builder{
		subject:    subject,
		parameters: ordered.New[any](4),
	}
}

// Scheme sets the authentication scheme.
func (b *Builder) Scheme(scheme string) *Builder {
	b.scheme = scheme
	return b
}

// Root sets the root flag.
func (b *Builder) Root(root bool) *Builder {
	b.root = root
	return b
}

// WithPermission appends permissions. Duplicates and empty names are dropped
// when the principal is built.
func (b *Builder) WithPermission(names ...string) *Builder {
	b.permissions = append(b.permissions, names...)
	return b
}

// WithParameter sets a parameter. Setting an existing name replaces the
// value and keeps its position.
func (b *Builder) WithParameter(name string, value any) *Builder {
	b.parameters.Set(name, value)
	return b
}

// Subject returns the subject the builder was started with.
func (b *Builder) Subject() string { return b.subject }

// IsRoot returns the current root flag.
func (b *Builder) IsRoot() bool { return b.root }

// Parameter returns a parameter set so far.
func (b *Builder) Parameter(name string) (any, bool) { return b.parameters.Get(name) }

// Parameters yields the parameters set so far in order.
func (b *Builder) Parameters() iter.Seq2[string, any] { return b.parameters.All() }

// Build returns an immutable principal. The builder may be reused; later
// changes do not affect principals already built.
func (b *Builder) Build() Principal {
	return Principal{
		subject:     b.subject,
		scheme:      b.scheme,
		root:        b.root,
		permissions: permission.NewSet(b.permissions...),
		parameters:  b.parameters.Clone(),
	}
}
