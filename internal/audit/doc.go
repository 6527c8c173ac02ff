// Package audit implements async delivery of token issuance and authentication events.
//
// # Components
//
//   - [Sink] is the consumer interface (channel, JSON lines writer, no-op).
//   - [Dispatcher] is a buffered relay that either drops or blocks when full.
//   - [Event] is the record: timestamp, type, subject, token id, issuer, IP, outcome.
//
// The package owns buffering and delivery. The engine decides which events to emit.
// It must not import tokenauth or sibling internal packages.
package audit
