// Package tokenauth issues and authenticates stateless JWT bearer tokens for
// principals, with issuer and required-claim policy, metrics and audit.
//
// The package is designed for concurrent server workloads: [Engine] and
// [Authenticator] methods are safe to call from multiple goroutines after
// construction through [Builder.Build] and [AuthenticatorBuilder.Build].
//
// # Architecture boundaries
//
// tokenauth is the public surface. Token encoding and decoding live in the jwt
// sub-package, the principal value in principal, and audit dispatch under
// internal/. Every error is classified by a [Kind].
//
// # What this package must NOT do
//
//   - Load keys from files, key stores or the environment.
//   - Read HTTP headers or cookies.
//   - Keep server-side token state or revocation lists.
//   - Log tokens, keys or claim values.
package tokenauth
