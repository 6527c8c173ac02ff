package internaldefs

import (
	"github.com/MrEthical07/tokenauth"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram.
type HistogramDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: tokenauth.MetricIssueSuccess, Name: "tokenauth_issue_success_total", Help: "Tokens issued."},
	{ID: tokenauth.MetricIssueFailure, Name: "tokenauth_issue_failure_total", Help: "Failed token issue attempts."},
	{ID: tokenauth.MetricAuthenticateSuccess, Name: "tokenauth_authenticate_success_total", Help: "Tokens authenticated."},
	{ID: tokenauth.MetricAuthenticateExpired, Name: "tokenauth_authenticate_expired_total", Help: "Tokens rejected as expired."},
	{ID: tokenauth.MetricAuthenticateInvalidToken, Name: "tokenauth_authenticate_invalid_token_total", Help: "Tokens rejected as malformed, tampered or violating policy."},
	{ID: tokenauth.MetricAuthenticateUnknownAccount, Name: "tokenauth_authenticate_unknown_account_total", Help: "Tokens rejected for a missing subject."},
	{ID: tokenauth.MetricAuthenticateInvalidConfiguration, Name: "tokenauth_authenticate_invalid_configuration_total", Help: "Authentications failed by configuration errors."},
	{ID: tokenauth.MetricAuthenticateUnexpected, Name: "tokenauth_authenticate_unexpected_total", Help: "Authentications failed for unexpected reasons."},
	{ID: tokenauth.MetricPolicyIssuerRejected, Name: "tokenauth_policy_issuer_rejected_total", Help: "Tokens rejected by the issuer allow-list."},
	{ID: tokenauth.MetricPolicyClaimMissing, Name: "tokenauth_policy_claim_missing_total", Help: "Tokens rejected for a missing required claim."},
}

var HistogramDefs = []HistogramDef{
	{ID: tokenauth.MetricIssueLatency, Name: "tokenauth_issue_latency_seconds", Help: "Token issue latency."},
	{ID: tokenauth.MetricAuthenticateLatency, Name: "tokenauth_authenticate_latency_seconds", Help: "Token authentication latency."},
}

const (
	AuditDroppedName = "tokenauth_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."
)

// HistogramBounds are the finite upper bounds in seconds. The engine keeps
// one extra overflow bucket.
var HistogramBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, including the overflow bucket, for
// exporters that publish buckets as separate instruments.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

const bucketCount = 8

// NormalizeBuckets copies raw into a fixed-size array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [bucketCount]uint64 {
	var out [bucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [bucketCount]uint64) [bucketCount]uint64 {
	var out [bucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
