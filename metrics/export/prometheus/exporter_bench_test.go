package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrEthical07/tokenauth"
)

func BenchmarkGather(b *testing.B) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewExporterFromSource(fakeSource{
		snapshot: tokenauth.MetricsSnapshot{
			Counters: map[tokenauth.MetricID]uint64{
				tokenauth.MetricIssueSuccess:             1000,
				tokenauth.MetricIssueFailure:             4,
				tokenauth.MetricAuthenticateSuccess:      900,
				tokenauth.MetricAuthenticateExpired:      40,
				tokenauth.MetricAuthenticateInvalidToken: 12,
			},
			Histograms: map[tokenauth.MetricID][]uint64{
				tokenauth.MetricAuthenticateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	}))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.Gather(); err != nil {
			b.Fatal(err)
		}
	}
}
