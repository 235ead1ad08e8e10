package output

import (
	"fmt"
	"io"
	"time"

	"github.com/wesleyorama2/catbench/internal/http"
	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/names"
	"github.com/wesleyorama2/catbench/internal/reset"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText prints three lines per call as calls complete
	FormatText OutputFormat = "text"
	// FormatJSON prints a single JSON run report at the end
	FormatJSON OutputFormat = "json"
	// FormatYAML prints a single YAML run report at the end
	FormatYAML OutputFormat = "yaml"
)

// Outcome classifies how a call ended.
type Outcome string

const (
	// OutcomeResponse means an HTTP response was received, whatever its status
	OutcomeResponse Outcome = "response"
	// OutcomeUnsupported means the method was not one the client can send
	OutcomeUnsupported Outcome = "unsupported"
	// OutcomeTransportError means the call failed before any response arrived
	OutcomeTransportError Outcome = "transport-error"
)

// CallRecord is everything known about one evaluated call.
type CallRecord struct {
	Iteration int
	Step      string
	Method    string
	URL       string
	Payload   interface{}
	Outcome   Outcome

	// Response is nil unless Outcome is OutcomeResponse
	Response *http.Response
	Elapsed  time.Duration
	Err      error
}

// Reporter receives the events of a run in order.
type Reporter interface {
	Start(run RunInfo)
	Reset(result reset.Result)
	Iteration(iteration int, set names.Set)
	Call(rec *CallRecord)
	Finish(summary metrics.Summary) error
}

// RunInfo identifies a run.
type RunInfo struct {
	RunID      string    `json:"runId" yaml:"runId"`
	BaseURL    string    `json:"baseUrl" yaml:"baseUrl"`
	Iterations int       `json:"iterations" yaml:"iterations"`
	Seed       uint64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
}

// Options controls how reports are rendered.
type Options struct {
	Verbose bool
	NoColor bool
}

// NewReporter returns the reporter for format writing to w.
func NewReporter(format OutputFormat, w io.Writer, opts Options) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewTextReporter(w, opts), nil
	case FormatJSON, FormatYAML:
		return NewStructuredReporter(format, w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
