package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/names"
	"github.com/wesleyorama2/catbench/internal/reset"
)

// TextReporter writes a plain-text report per call as soon as the call
// completes: status code, raw body and elapsed seconds.
type TextReporter struct {
	w          io.Writer
	verbose    bool
	noColor    bool
	colors     *ColorScheme
	iterations int
}

// NewTextReporter creates a text reporter writing to w
func NewTextReporter(w io.Writer, opts Options) *TextReporter {
	colors := NoColorScheme()
	if !opts.NoColor {
		colors = DefaultColorScheme().EnableAll()
	}
	return &TextReporter{
		w:       w,
		verbose: opts.Verbose,
		noColor: opts.NoColor,
		colors:  colors,
	}
}

// Start prints the run banner in verbose mode
func (r *TextReporter) Start(run RunInfo) {
	r.iterations = run.Iterations
	if !r.verbose {
		return
	}
	fmt.Fprintf(r.w, "%s run %s against %s (%d iteration(s))\n",
		r.colors.Highlight.Sprint("catbench"), run.RunID, r.colors.URL.Sprint(run.BaseURL), run.Iterations)
}

// Reset prints the outcome of the catalog state reset
func (r *TextReporter) Reset(result reset.Result) {
	if result.Skipped && !r.verbose {
		return
	}
	fmt.Fprintln(r.w, result.Message())
}

// Iteration prints the generated names in verbose mode
func (r *TextReporter) Iteration(iteration int, set names.Set) {
	if !r.verbose {
		return
	}
	fmt.Fprintf(r.w, "Iteration %d: namespace=%s table=%s renamed=%s\n",
		iteration, set.Namespace, set.Table, set.RenamedTable)
}

// Call prints the report for one call
func (r *TextReporter) Call(rec *CallRecord) {
	var buf strings.Builder

	if r.verbose {
		buf.WriteString(fmt.Sprintf("▶ %s: %s %s\n", rec.Step, r.colors.Method.Sprint(rec.Method), r.colors.URL.Sprint(rec.URL)))
	}

	if rec.Response == nil {
		buf.WriteString(r.colors.Error.Sprint("Request failed"))
		buf.WriteString("\n")
		if r.verbose && rec.Err != nil {
			buf.WriteString(fmt.Sprintf("  %s %v\n", ErrorIcon(r.noColor), rec.Err))
		}
		fmt.Fprint(r.w, buf.String())
		return
	}

	resp := rec.Response
	body, err := resp.GetBodyAsString()
	if err != nil {
		buf.WriteString(r.colors.Error.Sprint("Request failed"))
		buf.WriteString("\n")
		if r.verbose {
			buf.WriteString(fmt.Sprintf("  %s reading response body: %v\n", ErrorIcon(r.noColor), err))
		}
		fmt.Fprint(r.w, buf.String())
		return
	}

	buf.WriteString(fmt.Sprintf("Response code: %s\n", r.colors.StatusColor(resp).Sprint(resp.StatusCode)))
	buf.WriteString(fmt.Sprintf("Response body: %s\n", body))
	buf.WriteString(fmt.Sprintf("Elapsed time: %s seconds\n", FormatSeconds(resp.Elapsed)))

	if r.verbose {
		label := r.colors.Label.Sprint
		if msg, code, ok := CatalogError(body); ok {
			buf.WriteString(fmt.Sprintf("  %s %s (code %d)\n", label("Catalog error:"), msg, code))
		}
		t := resp.Timing
		buf.WriteString(fmt.Sprintf("  %s\n", label("Timing:")))
		buf.WriteString(fmt.Sprintf("    %s %s\n", label("DNS Lookup:        "), t.DNSLookupTime))
		buf.WriteString(fmt.Sprintf("    %s %s\n", label("TCP Connection:    "), t.TCPConnectTime))
		buf.WriteString(fmt.Sprintf("    %s %s\n", label("TLS Handshake:     "), t.TLSHandshakeTime))
		buf.WriteString(fmt.Sprintf("    %s %s\n", label("Time to First Byte:"), t.TimeToFirstByte))
		buf.WriteString(fmt.Sprintf("    %s %s\n", label("Content Transfer:  "), t.ContentTransferTime))
	}

	fmt.Fprint(r.w, buf.String())
}

// Finish prints a latency summary when more than one iteration ran
func (r *TextReporter) Finish(summary metrics.Summary) error {
	if r.iterations <= 1 && !r.verbose {
		return nil
	}

	var buf strings.Builder
	buf.WriteString("\n")
	buf.WriteString(r.colors.Highlight.Sprint("Summary"))
	buf.WriteString(fmt.Sprintf(" (%d calls, %d responded, %d failed)\n", summary.TotalCalls, summary.Responded, summary.Failed))
	buf.WriteString(fmt.Sprintf("  %-22s %6s %6s %10s %10s %10s %10s\n", "STEP", "OK", "FAIL", "MIN", "P50", "P99", "MAX"))
	for _, s := range summary.Steps {
		buf.WriteString(fmt.Sprintf("  %-22s %6d %6d %10s %10s %10s %10s\n",
			s.Step, s.Responded, s.Failed,
			roundDuration(s.Latency.Min), roundDuration(s.Latency.P50),
			roundDuration(s.Latency.P99), roundDuration(s.Latency.Max)))
	}

	_, err := fmt.Fprint(r.w, buf.String())
	return err
}

// FormatSeconds renders a duration as decimal seconds with no trailing zeros.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// CatalogError extracts the message and code of a catalog error document
// of the form {"error": {"message": ..., "code": ...}}.
func CatalogError(body string) (string, int64, bool) {
	if body == "" || !gjson.Valid(body) {
		return "", 0, false
	}
	msg := gjson.Get(body, "error.message")
	if !msg.Exists() {
		return "", 0, false
	}
	return msg.String(), gjson.Get(body, "error.code").Int(), true
}

func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	default:
		return d
	}
}
