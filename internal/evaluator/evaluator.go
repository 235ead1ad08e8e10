// Package evaluator issues one timed catalog call and reports its outcome.
package evaluator

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wesleyorama2/catbench/internal/http"
	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/output"
)

// Sender is the part of the HTTP client the evaluator needs.
type Sender interface {
	Send(ctx context.Context, method, endpoint string, payload interface{}) (*http.Response, error)
	URL(endpoint string) (string, error)
}

// Call describes a single request to evaluate.
type Call struct {
	Iteration int
	Step      string
	Method    string
	Endpoint  string
	Payload   interface{}
}

// Evaluator sends calls through a Sender and reports every outcome.
type Evaluator struct {
	sender   Sender
	reporter output.Reporter
	recorder *metrics.Recorder
}

// New creates an evaluator. recorder may be nil.
func New(sender Sender, reporter output.Reporter, recorder *metrics.Recorder) *Evaluator {
	return &Evaluator{
		sender:   sender,
		reporter: reporter,
		recorder: recorder,
	}
}

// Evaluate issues the call and reports it. The returned record is always
// non-nil. An unsupported method is reported as a failed request and is not
// an error; a transport failure is reported and then returned so the caller
// can abort.
func (e *Evaluator) Evaluate(ctx context.Context, call Call) (*output.CallRecord, error) {
	rec := &output.CallRecord{
		Iteration: call.Iteration,
		Step:      call.Step,
		Method:    call.Method,
		URL:       call.Endpoint,
		Payload:   call.Payload,
	}
	if u, err := e.sender.URL(call.Endpoint); err == nil {
		rec.URL = u
	}

	resp, err := e.sender.Send(ctx, call.Method, call.Endpoint, call.Payload)

	var transportErr *http.TransportError
	switch {
	case err == nil && resp != nil:
		rec.Outcome = output.OutcomeResponse
		rec.Response = resp
		rec.Elapsed = resp.Elapsed
	case errors.Is(err, http.ErrUnsupportedMethod):
		rec.Outcome = output.OutcomeUnsupported
		rec.Err = err
	case errors.As(err, &transportErr):
		rec.Outcome = output.OutcomeTransportError
		rec.Elapsed = transportErr.Elapsed
		rec.Err = err
	default:
		// Request could not be built, or the sender returned nothing
		rec.Outcome = output.OutcomeTransportError
		rec.Err = err
		if rec.Err == nil {
			rec.Err = errors.New("no response")
		}
	}

	e.record(rec)
	e.reporter.Call(rec)

	if rec.Outcome == output.OutcomeTransportError {
		log.Error().Err(rec.Err).Str("step", rec.Step).Str("method", rec.Method).Str("url", rec.URL).Msg("request failed")
		return rec, rec.Err
	}

	ev := log.Debug()
	if rec.Response != nil && rec.Response.IsServerError() {
		ev = log.Warn()
	}
	ev = ev.Str("step", rec.Step).Str("method", rec.Method).Str("outcome", string(rec.Outcome))
	if rec.Response != nil {
		ev = ev.Int("status", rec.Response.StatusCode).Dur("elapsed", rec.Elapsed)
	}
	ev.Msg("call evaluated")

	return rec, nil
}

func (e *Evaluator) record(rec *output.CallRecord) {
	if e.recorder == nil {
		return
	}
	if rec.Response != nil {
		e.recorder.RecordResponse(rec.Step, rec.Response.StatusCode, rec.Elapsed)
		return
	}
	e.recorder.RecordFailure(rec.Step)
}
