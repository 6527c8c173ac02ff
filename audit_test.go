package tokenauth

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
)

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

type panicSink struct {
	calls atomic.Int64
}

func (s *panicSink) Emit(context.Context, AuditEvent) {
	s.calls.Add(1)
	panic("sink failure")
}

func auditConfig() Config {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	return cfg
}

func TestAuditIssueAndAuthenticateEvents(t *testing.T) {
	sink := NewChannelSink(8)
	engine := buildTestEngine(t, auditConfig(), func(b *Builder) { b.WithAuditSink(sink) })

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	issued, err := engine.Issue(ctx, testPrincipal())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	e := nextEvent(t, sink)
	if e.EventType != auditEventTokenIssued || !e.Success {
		t.Fatalf("unexpected issue event: %+v", e)
	}
	if e.Subject != "alice" || e.TokenID != issued.TokenID || e.Issuer != "issuer-a" {
		t.Fatalf("unexpected issue event fields: %+v", e)
	}
	if e.IP != "203.0.113.7" || e.Metadata["algorithm"] != "HS256" {
		t.Fatalf("unexpected issue event context: %+v", e)
	}
	if !e.Timestamp.Equal(testNow) {
		t.Fatalf("expected clock timestamp, got %v", e.Timestamp)
	}

	if _, err := engine.Authenticate(ctx, issued.Token); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	e = nextEvent(t, sink)
	if e.EventType != auditEventTokenAuthenticated || !e.Success {
		t.Fatalf("unexpected authenticate event: %+v", e)
	}
	if e.Subject != "alice" || e.TokenID != issued.TokenID || e.Issuer != "issuer-a" {
		t.Fatalf("unexpected authenticate event fields: %+v", e)
	}
}

func TestAuditRejectedEventCarriesKind(t *testing.T) {
	sink := NewChannelSink(8)
	engine := buildTestEngine(t, auditConfig(), func(b *Builder) { b.WithAuditSink(sink) })

	if _, err := engine.Authenticate(context.Background(), "a.b.c"); err == nil {
		t.Fatal("expected failure")
	}

	e := nextEvent(t, sink)
	if e.EventType != auditEventTokenRejected || e.Success {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.Reason != KindInvalidToken.String() || e.Error == "" {
		t.Fatalf("expected invalid_token reason, got %+v", e)
	}
	if e.Subject != "" {
		t.Fatalf("rejected token must not report a subject, got %q", e.Subject)
	}
}

func TestAuditIssueFailedEvent(t *testing.T) {
	sink := NewChannelSink(8)
	engine := buildTestEngine(t, auditConfig(), func(b *Builder) { b.WithAuditSink(sink) })

	if _, err := engine.IssueWithID(context.Background(), testPrincipalWithSubject(""), "id-1"); err == nil {
		t.Fatal("expected failure")
	}

	e := nextEvent(t, sink)
	if e.EventType != auditEventTokenIssueFailed || e.Reason != KindInvalidPrincipal.String() || e.TokenID != "id-1" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestAuditDropIfFull(t *testing.T) {
	sink := newGateSink()
	cfg := auditConfig()
	cfg.Audit.BufferSize = 1
	cfg.Audit.DropIfFull = true
	engine := buildTestEngine(t, cfg, func(b *Builder) { b.WithAuditSink(sink) })
	defer close(sink.gate)

	for i := 0; i < 10; i++ {
		if _, err := engine.Issue(context.Background(), testPrincipal()); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
	}
	if engine.AuditDropped() == 0 {
		t.Fatal("expected dropped audit events with a blocked sink")
	}
}

func TestAuditSinkPanicRecovered(t *testing.T) {
	sink := &panicSink{}
	engine, err := New().WithConfig(auditConfig()).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := engine.Issue(context.Background(), testPrincipal()); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
	}
	engine.Close()

	if got := sink.calls.Load(); got != 3 {
		t.Fatalf("expected sink to keep receiving after panics, got %d calls", got)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	sink := NewChannelSink(1)
	engine := buildTestEngine(t, testConfig(), func(b *Builder) { b.WithAuditSink(sink) })

	if _, err := engine.Issue(context.Background(), testPrincipal()); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	engine.Close()

	select {
	case e := <-sink.Events():
		t.Fatalf("unexpected event with audit disabled: %+v", e)
	default:
	}
}

func TestJSONWriterSinkEncodesLines(t *testing.T) {
	var buf bytes.Buffer
	engine, err := New().WithConfig(auditConfig()).WithAuditSink(NewJSONWriterSink(&buf)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	issued, err := engine.Issue(context.Background(), testPrincipal())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	engine.Close()

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("invalid JSON line %q: %v", line, err)
	}
	if decoded["event_type"] != auditEventTokenIssued || decoded["token_id"] != issued.TokenID {
		t.Fatalf("unexpected JSON event: %v", decoded)
	}
	if strings.Contains(line, issued.Token) {
		t.Fatal("audit output must not contain the token")
	}
}
