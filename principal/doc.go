// Package principal defines the authenticated-principal value that tokens are
// issued for and decoded into.
//
// A [Principal] is read-only. A [Builder] assembles one and is what the token
// decoder returns, so callers can add local parameters before building.
package principal
