// Package jwt issues and verifies compact JWS tokens for authenticated principals.
//
// An immutable [Configuration] describes the signature algorithm, key material,
// issuer, expiration and claim-inclusion policy. [Encode] turns a
// [principal.Principal] into a signed (or, for [None], unsigned) token. [Decode]
// verifies a token and returns a [principal.Builder] holding the subject, the
// permissions carried in the ATH$prms claim and every other claim as a parameter.
//
// # Errors
//
// Every failure is an [*Error] whose [Kind] is one of a closed set. Use
// [errors.Is] with the Err* sentinels or [KindOf] to classify.
//
// # What this package must NOT do
//
//   - Load keys from files, key stores or the network.
//   - Enforce issuer allow-lists or required claims (the authenticator does that).
//   - Keep server-side token state.
package jwt
