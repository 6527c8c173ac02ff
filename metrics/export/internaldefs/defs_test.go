package internaldefs

import (
	"strings"
	"testing"
)

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [bucketCount]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDefinitionsAreUnique(t *testing.T) {
	seen := map[string]bool{AuditDroppedName: true}
	for _, def := range CounterDefs {
		if seen[def.Name] || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("bad counter name %q", def.Name)
		}
		seen[def.Name] = true
	}
	for _, def := range HistogramDefs {
		if seen[def.Name] || !strings.HasSuffix(def.Name, "_seconds") {
			t.Fatalf("bad histogram name %q", def.Name)
		}
		seen[def.Name] = true
	}
	if len(HistogramBoundSuffix) != len(HistogramBounds)+1 {
		t.Fatal("suffixes must cover every bound plus overflow")
	}
}
