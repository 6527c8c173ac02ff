package tokenauth

import (
	"bytes"
	"testing"
	"time"

	"github.com/MrEthical07/tokenauth/principal"
)

var testSecret = bytes.Repeat([]byte("k"), 32)

var testNow = time.Unix(1_700_000_000, 0)

func nextEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()
	select {
	case e := <-sink.Events():
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Issuer = "issuer-a"
	cfg.JWT.SharedKey = bytes.Clone(testSecret)
	cfg.Policy.Issuers = []string{"issuer-a"}
	return cfg
}

func buildTestEngine(t *testing.T, cfg Config, configure ...func(*Builder)) *Engine {
	t.Helper()

	b := New().WithConfig(cfg).WithClock(func() time.Time { return testNow })
	for _, fn := range configure {
		fn(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func testPrincipal() principal.Principal {
	return principal.NewBuilder("alice").
		WithPermission("doc.read", "doc.write").
		WithParameter("tenant", "acme").
		Build()
}

func testPrincipalWithSubject(subject string) principal.Principal {
	return principal.NewBuilder(subject).WithPermission("doc.read").Build()
}
