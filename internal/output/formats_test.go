package output

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/catbench/internal/metrics"
	"github.com/wesleyorama2/catbench/internal/names"
	"github.com/wesleyorama2/catbench/internal/reset"
)

func feedRun(r Reporter) metrics.Summary {
	r.Start(RunInfo{RunID: "run-1", BaseURL: "http://catalog.test/v1/", Iterations: 1, Seed: 7})
	r.Reset(reset.Result{Path: "database/catalog.namespace", Removed: true})
	r.Iteration(1, names.Set{Namespace: "abcdefgh", Table: "ijklmnop", RenamedTable: "qrstuvwx"})
	r.Call(&CallRecord{
		Iteration: 1,
		Step:      "create-namespace",
		Method:    "POST",
		URL:       "http://catalog.test/v1/namespaces",
		Payload:   map[string]interface{}{"namespace": []string{"abcdefgh"}},
		Outcome:   OutcomeResponse,
		Response:  newResponse(200, `{"namespace":["abcdefgh"]}`, 20*time.Millisecond),
	})
	r.Call(&CallRecord{
		Iteration: 1,
		Step:      "get-namespace",
		Method:    "GET",
		URL:       "http://catalog.test/v1/namespaces/abcdefgh",
		Outcome:   OutcomeTransportError,
		Elapsed:   5 * time.Millisecond,
		Err:       errors.New("connection reset"),
	})

	recorder := metrics.NewRecorder()
	recorder.RecordResponse("create-namespace", 200, 20*time.Millisecond)
	recorder.RecordFailure("get-namespace")
	return recorder.Summary()
}

func TestStructuredReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewStructuredReporter(FormatJSON, &buf)
	summary := feedRun(r)

	assert.Empty(t, buf.String(), "nothing is written before Finish")
	require.NoError(t, r.Finish(summary))

	out := buf.String()
	require.True(t, gjson.Valid(out))
	assert.Equal(t, "run-1", gjson.Get(out, "run.runId").String())
	assert.True(t, gjson.Get(out, "reset.removed").Bool())
	assert.Equal(t, "abcdefgh", gjson.Get(out, "iterations.0.namespace").String())
	assert.Equal(t, int64(2), gjson.Get(out, "calls.#").Int())

	assert.Equal(t, "response", gjson.Get(out, "calls.0.outcome").String())
	assert.Equal(t, int64(200), gjson.Get(out, "calls.0.statusCode").Int())
	assert.Equal(t, "abcdefgh", gjson.Get(out, "calls.0.responseBody.namespace.0").String())
	assert.Equal(t, "abcdefgh", gjson.Get(out, "calls.0.requestBody.namespace.0").String())
	assert.InDelta(t, 0.02, gjson.Get(out, "calls.0.elapsedSeconds").Float(), 1e-9)

	assert.Equal(t, "transport-error", gjson.Get(out, "calls.1.outcome").String())
	assert.Equal(t, "connection reset", gjson.Get(out, "calls.1.error").String())
	assert.False(t, gjson.Get(out, "calls.1.statusCode").Exists())

	assert.Equal(t, int64(2), gjson.Get(out, "summary.totalCalls").Int())
	assert.Equal(t, "create-namespace", gjson.Get(out, "summary.steps.0.step").String())
}

func TestStructuredReporter_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewStructuredReporter(FormatYAML, &buf)
	require.NoError(t, r.Finish(feedRun(r)))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	run, ok := doc["run"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "run-1", run["runId"])

	calls, ok := doc["calls"].([]interface{})
	require.True(t, ok)
	assert.Len(t, calls, 2)
}

func TestStructuredReporter_NonJSONBodyKeptAsText(t *testing.T) {
	r := NewStructuredReporter(FormatJSON, &bytes.Buffer{})
	r.Call(&CallRecord{Outcome: OutcomeResponse, Response: newResponse(500, "Internal Server Error", time.Millisecond)})

	report := r.report
	require.Len(t, report.Calls, 1)
	assert.Equal(t, "Internal Server Error", report.Calls[0].ResponseBody)
	assert.NotNil(t, report.Calls[0].Timing)
}

func TestStructuredReporter_ContentTypeAndBodyError(t *testing.T) {
	r := NewStructuredReporter(FormatJSON, &bytes.Buffer{})

	ok := newResponse(200, `{"name":"ijklmnop"}`, time.Millisecond)
	ok.Headers = map[string][]string{"Content-Type": {"application/json"}}
	r.Call(&CallRecord{Outcome: OutcomeResponse, Response: ok})

	broken := newResponse(200, "", time.Millisecond)
	broken.Body = io.NopCloser(iotest.ErrReader(io.ErrUnexpectedEOF))
	r.Call(&CallRecord{Outcome: OutcomeResponse, Response: broken})

	require.Len(t, r.report.Calls, 2)
	assert.Equal(t, "application/json", r.report.Calls[0].ContentType)
	assert.Equal(t, map[string]interface{}{"name": "ijklmnop"}, r.report.Calls[0].ResponseBody)
	assert.Nil(t, r.report.Calls[1].ResponseBody)
	assert.Contains(t, r.report.Calls[1].Error, "unexpected EOF")
}

func TestNewReporter(t *testing.T) {
	tests := []struct {
		format  OutputFormat
		want    interface{}
		wantErr bool
	}{
		{format: FormatText, want: &TextReporter{}},
		{format: "", want: &TextReporter{}},
		{format: FormatJSON, want: &StructuredReporter{}},
		{format: FormatYAML, want: &StructuredReporter{}},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			r, err := NewReporter(tt.format, &bytes.Buffer{}, Options{NoColor: true})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.False(t, UseColor(&buf, false))
	assert.False(t, UseColor(&buf, true))
}
