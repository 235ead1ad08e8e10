package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/names"
	"github.com/wesleyorama2/catbench/internal/reset"
)

// TimingData is the per-phase timing of a call in milliseconds
type TimingData struct {
	DNSLookup       float64 `json:"dnsLookupMs" yaml:"dnsLookupMs"`
	TCPConnection   float64 `json:"tcpConnectionMs" yaml:"tcpConnectionMs"`
	TLSHandshake    float64 `json:"tlsHandshakeMs" yaml:"tlsHandshakeMs"`
	TimeToFirstByte float64 `json:"timeToFirstByteMs" yaml:"timeToFirstByteMs"`
	ContentTransfer float64 `json:"contentTransferMs" yaml:"contentTransferMs"`
}

// CallData is the structured form of a CallRecord
type CallData struct {
	Iteration      int         `json:"iteration" yaml:"iteration"`
	Step           string      `json:"step" yaml:"step"`
	Method         string      `json:"method" yaml:"method"`
	URL            string      `json:"url" yaml:"url"`
	RequestBody    interface{} `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Outcome        Outcome     `json:"outcome" yaml:"outcome"`
	StatusCode     int         `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	ContentType    string      `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	ResponseBody   interface{} `json:"responseBody,omitempty" yaml:"responseBody,omitempty"`
	ElapsedSeconds float64     `json:"elapsedSeconds" yaml:"elapsedSeconds"`
	Timing         *TimingData `json:"timing,omitempty" yaml:"timing,omitempty"`
	Error          string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunReport is the whole run as emitted by the JSON and YAML formats
type RunReport struct {
	Run        RunInfo         `json:"run" yaml:"run"`
	Reset      *reset.Result   `json:"reset,omitempty" yaml:"reset,omitempty"`
	Iterations []names.Set     `json:"iterations" yaml:"iterations"`
	Calls      []CallData      `json:"calls" yaml:"calls"`
	Summary    metrics.Summary `json:"summary" yaml:"summary"`
}

// StructuredReporter buffers the run and writes it once on Finish
type StructuredReporter struct {
	w      io.Writer
	format OutputFormat
	report RunReport
}

// NewStructuredReporter creates a JSON or YAML reporter
func NewStructuredReporter(format OutputFormat, w io.Writer) *StructuredReporter {
	return &StructuredReporter{
		w:      w,
		format: format,
		report: RunReport{
			Iterations: []names.Set{},
			Calls:      []CallData{},
		},
	}
}

// Start records the run identity
func (r *StructuredReporter) Start(run RunInfo) {
	r.report.Run = run
}

// Reset records the catalog state reset
func (r *StructuredReporter) Reset(result reset.Result) {
	r.report.Reset = &result
}

// Iteration records the names of an iteration
func (r *StructuredReporter) Iteration(iteration int, set names.Set) {
	r.report.Iterations = append(r.report.Iterations, set)
}

// Call records one call
func (r *StructuredReporter) Call(rec *CallRecord) {
	data := CallData{
		Iteration:      rec.Iteration,
		Step:           rec.Step,
		Method:         rec.Method,
		URL:            rec.URL,
		RequestBody:    rec.Payload,
		Outcome:        rec.Outcome,
		ElapsedSeconds: rec.Elapsed.Seconds(),
	}
	if rec.Err != nil {
		data.Error = rec.Err.Error()
	}

	if resp := rec.Response; resp != nil {
		data.StatusCode = resp.StatusCode
		data.ContentType = resp.GetHeader("Content-Type")
		data.ElapsedSeconds = resp.ElapsedSeconds()
		var parsed interface{}
		if err := resp.GetBodyAsJSON(&parsed); err == nil {
			data.ResponseBody = parsed
		} else if body, err := resp.GetBody(); err == nil && len(body) > 0 {
			data.ResponseBody = string(body)
		} else if err != nil {
			data.Error = fmt.Sprintf("reading response body: %v", err)
		}
		t := resp.Timing
		data.Timing = &TimingData{
			DNSLookup:       millis(t.DNSLookupTime.Seconds()),
			TCPConnection:   millis(t.TCPConnectTime.Seconds()),
			TLSHandshake:    millis(t.TLSHandshakeTime.Seconds()),
			TimeToFirstByte: millis(t.TimeToFirstByte.Seconds()),
			ContentTransfer: millis(t.ContentTransferTime.Seconds()),
		}
	}

	r.report.Calls = append(r.report.Calls, data)
}

// Finish writes the buffered report
func (r *StructuredReporter) Finish(summary metrics.Summary) error {
	r.report.Summary = summary

	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(r.report); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r.report); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
		return nil
	}
}

func millis(seconds float64) float64 {
	return seconds * 1000
}
