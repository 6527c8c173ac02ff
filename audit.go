package tokenauth

import (
	"io"

	"github.com/MrEthical07/tokenauth/internal/audit"
)

// AuditEvent is one audit record emitted by the [Engine].
type AuditEvent = audit.Event

// AuditSink receives audit events on the dispatcher goroutine.
type AuditSink = audit.Sink

type NoOpSink = audit.NoOpSink

type ChannelSink = audit.ChannelSink

type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink returns a sink that buffers up to buffer events for the caller to read.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink that writes JSON lines to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
