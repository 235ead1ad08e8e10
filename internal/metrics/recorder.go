// Package metrics aggregates per-step catalog call latencies across
// scenario iterations using HDR histograms.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Config controls the histogram range and precision.
type Config struct {
	// HistogramMin is the minimum recordable value in microseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in microseconds (default: 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		HistogramMin:     1,
		HistogramMax:     3600000000, // 1 hour in microseconds
		HistogramSigFigs: 3,
	}
}

// Recorder collects call latencies keyed by step name. Steps are reported
// in the order they were first recorded.
type Recorder struct {
	mu      sync.Mutex
	config  Config
	overall *hdrhistogram.Histogram
	steps   map[string]*stepStats
	order   []string

	total     int64
	responded int64
	failed    int64
}

type stepStats struct {
	hist      *hdrhistogram.Histogram
	responded int64
	failed    int64
	statuses  map[int]int64
}

// NewRecorder creates a recorder with the default configuration.
func NewRecorder() *Recorder {
	return newRecorder(DefaultConfig())
}

func newRecorder(config Config) *Recorder {
	return &Recorder{
		config:  config,
		overall: hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		steps:   make(map[string]*stepStats),
	}
}

// RecordResponse records a call that produced an HTTP response, whatever its
// status code.
func (r *Recorder) RecordResponse(step string, statusCode int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.step(step)
	micros := r.clamp(elapsed)
	s.hist.RecordValue(micros)
	r.overall.RecordValue(micros)
	s.responded++
	s.statuses[statusCode]++
	r.responded++
	r.total++
}

// RecordFailure records a call that produced no response. Its latency is not
// added to the histograms.
func (r *Recorder) RecordFailure(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.step(step).failed++
	r.failed++
	r.total++
}

func (r *Recorder) step(name string) *stepStats {
	s, ok := r.steps[name]
	if !ok {
		s = &stepStats{
			hist:     hdrhistogram.New(r.config.HistogramMin, r.config.HistogramMax, r.config.HistogramSigFigs),
			statuses: make(map[int]int64),
		}
		r.steps[name] = s
		r.order = append(r.order, name)
	}
	return s
}

func (r *Recorder) clamp(d time.Duration) int64 {
	micros := d.Microseconds()
	if micros < r.config.HistogramMin {
		micros = r.config.HistogramMin
	}
	if micros > r.config.HistogramMax {
		micros = r.config.HistogramMax
	}
	return micros
}

// LatencyStats contains latency statistics.
type LatencyStats struct {
	Min   time.Duration `json:"min" yaml:"min"`
	Max   time.Duration `json:"max" yaml:"max"`
	Mean  time.Duration `json:"mean" yaml:"mean"`
	P50   time.Duration `json:"p50" yaml:"p50"`
	P90   time.Duration `json:"p90" yaml:"p90"`
	P99   time.Duration `json:"p99" yaml:"p99"`
	Count int64         `json:"count" yaml:"count"`
}

// StepSummary is the aggregate for one scenario step.
type StepSummary struct {
	Step      string        `json:"step" yaml:"step"`
	Responded int64         `json:"responded" yaml:"responded"`
	Failed    int64         `json:"failed" yaml:"failed"`
	Statuses  map[int]int64 `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	Latency   LatencyStats  `json:"latency" yaml:"latency"`
}

// Summary is a point-in-time view of everything recorded.
type Summary struct {
	TotalCalls int64         `json:"totalCalls" yaml:"totalCalls"`
	Responded  int64         `json:"responded" yaml:"responded"`
	Failed     int64         `json:"failed" yaml:"failed"`
	Overall    LatencyStats  `json:"overall" yaml:"overall"`
	Steps      []StepSummary `json:"steps" yaml:"steps"`
}

// Summary returns the aggregated statistics.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := Summary{
		TotalCalls: r.total,
		Responded:  r.responded,
		Failed:     r.failed,
		Overall:    latencyStats(r.overall),
		Steps:      make([]StepSummary, 0, len(r.order)),
	}

	for _, name := range r.order {
		s := r.steps[name]
		statuses := make(map[int]int64, len(s.statuses))
		for code, n := range s.statuses {
			statuses[code] = n
		}
		summary.Steps = append(summary.Steps, StepSummary{
			Step:      name,
			Responded: s.responded,
			Failed:    s.failed,
			Statuses:  statuses,
			Latency:   latencyStats(s.hist),
		})
	}

	return summary
}

func latencyStats(h *hdrhistogram.Histogram) LatencyStats {
	if h.TotalCount() == 0 {
		return LatencyStats{}
	}
	return LatencyStats{
		Min:   time.Duration(h.Min()) * time.Microsecond,
		Max:   time.Duration(h.Max()) * time.Microsecond,
		Mean:  time.Duration(h.Mean()) * time.Microsecond,
		P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
		P90:   time.Duration(h.ValueAtQuantile(90)) * time.Microsecond,
		P99:   time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
		Count: h.TotalCount(),
	}
}
