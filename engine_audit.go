package tokenauth

import (
	"context"
	"time"

	"github.com/MrEthical07/tokenauth/internal/audit"
)

const (
	auditEventTokenIssued        = "token_issued"
	auditEventTokenIssueFailed   = "token_issue_failed"
	auditEventTokenAuthenticated = "token_authenticated"
	auditEventTokenRejected      = "token_rejected"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	subject string,
	tokenID string,
	issuer string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := audit.Event{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Subject:   subject,
		TokenID:   tokenID,
		Issuer:    issuer,
		IP:        clientIPFromContext(ctx),
		Success:   err == nil,
		Metadata:  metadata,
	}
	if err != nil {
		event.Reason = KindOf(err).String()
		event.Error = err.Error()
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now()
}
