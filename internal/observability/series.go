package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// series is one counter or gauge family in the Prometheus text format. A
// family without label names holds a single unlabelled sample.
type series struct {
	name   string
	help   string
	typ    string
	labels []string

	mu      sync.Mutex
	samples map[string]float64
}

func newCounter(name, help string, labels ...string) *series {
	return &series{name: name, help: help, typ: "counter", labels: labels, samples: map[string]float64{}}
}

func newGauge(name, help string, labels ...string) *series {
	return &series{name: name, help: help, typ: "gauge", labels: labels, samples: map[string]float64{}}
}

func (s *series) add(delta float64, values ...string) {
	key := labelSet(s.labels, values)
	s.mu.Lock()
	s.samples[key] += delta
	s.mu.Unlock()
}

func (s *series) set(v float64, values ...string) {
	key := labelSet(s.labels, values)
	s.mu.Lock()
	s.samples[key] = v
	s.mu.Unlock()
}

func (s *series) WritePrometheus(w io.Writer) error {
	if err := writeHeader(w, s.name, s.help, s.typ); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range sortedKeys(s.samples) {
		if _, err := fmt.Fprintf(w, "%s%s %s\n", s.name, key, formatFloat(s.samples[key])); err != nil {
			return err
		}
	}
	return nil
}

// histogram is a labelled family with cumulative buckets.
type histogram struct {
	name   string
	help   string
	labels []string
	bounds []float64

	mu      sync.Mutex
	samples map[string]*bucketCounts
}

type bucketCounts struct {
	le    []uint64 // cumulative, one per bound
	sum   float64
	count uint64
}

func newHistogram(name, help string, labels []string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, labels: labels, bounds: bounds, samples: map[string]*bucketCounts{}}
}

func (h *histogram) observe(v float64, values ...string) {
	key := labelSet(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	bc := h.samples[key]
	if bc == nil {
		bc = &bucketCounts{le: make([]uint64, len(h.bounds))}
		h.samples[key] = bc
	}
	for i, b := range h.bounds {
		if v <= b {
			bc.le[i]++
		}
	}
	bc.sum += v
	bc.count++
}

func (h *histogram) WritePrometheus(w io.Writer) error {
	if err := writeHeader(w, h.name, h.help, "histogram"); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.samples))
	for k := range h.samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		bc := h.samples[key]
		for i, b := range h.bounds {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withBound(key, formatFloat(b)), bc.le[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %s\n%s_count%s %d\n",
			h.name, withBound(key, "+Inf"), bc.count,
			h.name, key, formatFloat(bc.sum),
			h.name, key, bc.count); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer, name, help, typ string) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, typ)
	return err
}

// labelSet renders {a="x",b="y"}; missing values become "unknown".
func labelSet(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = name + "=" + strconv.Quote(val)
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func withBound(labels, le string) string {
	bound := `le="` + le + `"`
	if labels == "" {
		return "{" + bound + "}"
	}
	return strings.TrimSuffix(labels, "}") + "," + bound + "}"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
