// Package permission provides the ordered, de-duplicated permission set carried
// by a principal and serialized into the ATH$prms claim.
//
// # Architecture boundaries
//
// This package is a pure in-memory value type with no I/O.
//
// # What this package must NOT do
//
//   - Interpret permission names or implement authorization checks beyond membership.
//   - Import tokenauth, jwt, or principal.
package permission
