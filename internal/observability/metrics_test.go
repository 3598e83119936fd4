package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveProviderRequest("deepl", "429", time.Millisecond)
	m.IncSweepUnit("quiz_question", "complete")
	m.SetCoverageGaps("quiz_question", 3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := newMetrics()
	m.ObserveProviderRequest("deepl", "200", 120*time.Millisecond)
	m.IncSweepUnit("quiz_question", "complete")
	m.SetCoverageGaps("training_module", 42)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`lit_translation_provider_requests_total{provider="deepl",status="200"} 1`,
		`lit_translation_units_total{kind="quiz_question",outcome="complete"} 1`,
		`lit_translation_coverage_gaps{kind="training_module"} 42`,
		`lit_translation_provider_request_duration_seconds_bucket{provider="deepl",status="200",le="0.25"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, out)
		}
	}
}

func TestSeriesExposition(t *testing.T) {
	inflight := newGauge("inflight", "In-flight.")
	inflight.add(1)
	inflight.add(1)
	inflight.add(-1)

	units := newCounter("units", "Units.", "kind", "outcome")
	units.add(1, "b", "failed")
	units.add(1, "a", `quo"te`)
	units.add(1, "a")

	var buf bytes.Buffer
	_ = inflight.WritePrometheus(&buf)
	_ = units.WritePrometheus(&buf)
	want := "# HELP inflight In-flight.\n# TYPE inflight gauge\ninflight 1\n" +
		"# HELP units Units.\n# TYPE units counter\n" +
		`units{kind="a",outcome="quo\"te"} 1` + "\n" +
		`units{kind="a",outcome="unknown"} 1` + "\n" +
		`units{kind="b",outcome="failed"} 1` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected exposition:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := newHistogram("latency", "Latency.", nil, []float64{0.1, 1})
	h.observe(0.0625)
	h.observe(0.5)
	h.observe(3)

	var buf bytes.Buffer
	_ = h.WritePrometheus(&buf)
	out := buf.String()
	for _, want := range []string{
		`latency_bucket{le="0.1"} 1`,
		`latency_bucket{le="1"} 2`,
		`latency_bucket{le="+Inf"} 3`,
		`latency_sum 3.5625`,
		`latency_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
