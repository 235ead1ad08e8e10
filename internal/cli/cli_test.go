package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recordedCall struct {
	Method string
	Path   string
	Body   string
}

type fakeCatalog struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

func (f *fakeCatalog) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	catalog := &fakeCatalog{}
	server := httptest.NewServer(catalog)
	defer server.Close()

	stateFile := filepath.Join(t.TempDir(), "catalog.namespace")
	require.NoError(t, os.WriteFile(stateFile, []byte("{}"), 0o644))

	out, _, err := executeCommand(t, "run",
		"--base-url", server.URL+"/v1/",
		"--reset-file", stateFile,
		"--seed", "42",
		"--no-color",
		"--log-level", "disabled",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 1+7*3)
	assert.Equal(t, "Removed catalog file", lines[0])
	for i := 0; i < 7; i++ {
		assert.True(t, strings.HasPrefix(lines[1+i*3], "Response code: "), lines[1+i*3])
		assert.True(t, strings.HasPrefix(lines[2+i*3], "Response body: "), lines[2+i*3])
		assert.Regexp(t, `^Elapsed time: [0-9.e-]+ seconds$`, lines[3+i*3])
	}
	assert.Equal(t, "Response code: 204", lines[19])

	_, statErr := os.Stat(stateFile)
	assert.True(t, os.IsNotExist(statErr))

	calls := catalog.Calls()
	require.Len(t, calls, 7)
	methods := make([]string, len(calls))
	for i, c := range calls {
		methods[i] = c.Method
	}
	assert.Equal(t, []string{"POST", "GET", "POST", "GET", "POST", "GET", "DELETE"}, methods)

	ns := gjson.Get(calls[0].Body, "namespace.0").String()
	assert.Len(t, ns, 8)
	assert.Equal(t, "/v1/namespaces/"+ns, calls[1].Path)
	assert.Equal(t, "/v1/tables/rename", calls[4].Path)
}

func TestRunCommand_MissingStateFile(t *testing.T) {
	server := httptest.NewServer(&fakeCatalog{})
	defer server.Close()

	out, _, err := executeCommand(t, "run",
		"--base-url", server.URL+"/v1/",
		"--reset-file", filepath.Join(t.TempDir(), "absent"),
		"--log-level", "disabled",
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Catalog file does not exist\n"))
}

func TestRunCommand_SameSeedSameNames(t *testing.T) {
	bodies := func() string {
		catalog := &fakeCatalog{}
		server := httptest.NewServer(catalog)
		defer server.Close()

		_, _, err := executeCommand(t, "run",
			"--base-url", server.URL+"/v1/",
			"--skip-reset",
			"--seed", "7",
			"--log-level", "disabled",
		)
		require.NoError(t, err)
		return catalog.Calls()[4].Body
	}

	assert.Equal(t, bodies(), bodies())
}

func TestRunCommand_TransportErrorAborts(t *testing.T) {
	server := httptest.NewServer(&fakeCatalog{})
	baseURL := server.URL + "/v1/"
	server.Close()

	out, _, err := executeCommand(t, "run",
		"--base-url", baseURL,
		"--skip-reset",
		"--log-level", "disabled",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create-namespace")
	assert.Equal(t, "Request failed\n", out)
}

func TestRunCommand_JSONReportWithIterations(t *testing.T) {
	catalog := &fakeCatalog{}
	server := httptest.NewServer(catalog)
	defer server.Close()

	out, _, err := executeCommand(t, "run",
		"--base-url", server.URL+"/v1/",
		"--skip-reset",
		"--iterations", "2",
		"--format", "json",
		"--log-level", "disabled",
	)
	require.NoError(t, err)

	require.True(t, gjson.Valid(out), out)
	assert.Equal(t, int64(14), gjson.Get(out, "calls.#").Int())
	assert.Equal(t, int64(2), gjson.Get(out, "iterations.#").Int())
	assert.Len(t, gjson.Get(out, "run.runId").String(), 36)
	assert.True(t, gjson.Get(out, "reset.skipped").Bool())
	assert.Equal(t, int64(7), gjson.Get(out, "summary.steps.#").Int())
	assert.Len(t, catalog.Calls(), 14)
	assert.NotEqual(t,
		gjson.Get(out, "iterations.0.namespace").String(),
		gjson.Get(out, "iterations.1.namespace").String())
}

func TestRunCommand_ConfigFile(t *testing.T) {
	catalog := &fakeCatalog{}
	server := httptest.NewServer(catalog)
	defer server.Close()

	path := filepath.Join(t.TempDir(), "catbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseUrl: "`+server.URL+`/v1/"
skipReset: true
nameLength: 4
output:
  format: yaml
log:
  level: disabled
`), 0o644))

	out, _, err := executeCommand(t, "run", "--config", path, "--format", "json")
	require.NoError(t, err)

	require.True(t, gjson.Valid(out), "flag overrides the file format")
	assert.Len(t, gjson.Get(out, "iterations.0.namespace").String(), 4)
	assert.Len(t, catalog.Calls(), 7)
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand(t, "run", "--iterations", "0", "--base-url", "ftp://catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations")
	assert.Contains(t, err.Error(), "baseUrl")
}

func TestRunCommand_TruncatedBodyAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		buf.WriteString("HTTP/1.1 200 OK\r\nContent-Length: 100\r\n\r\n{\"namespace\"")
		buf.Flush()
		conn.Close()
	}))
	defer server.Close()

	out, _, err := executeCommand(t, "run",
		"--base-url", server.URL+"/v1/",
		"--skip-reset",
		"--log-level", "disabled",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create-namespace")
	assert.Equal(t, "Request failed\n", out)
}

func TestRunCommand_Headers(t *testing.T) {
	var mu sync.Mutex
	var auth, tenant []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = append(auth, r.Header.Get("Authorization"))
		tenant = append(tenant, r.Header.Get("X-Tenant"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, _, err := executeCommand(t, "run",
		"--base-url", server.URL+"/v1/",
		"--skip-reset",
		"-H", "Authorization: Bearer abc",
		"--header", "X-Tenant:bench",
		"--log-level", "disabled",
	)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, auth, 7)
	for i := range auth {
		assert.Equal(t, "Bearer abc", auth[i])
		assert.Equal(t, "bench", tenant[i])
	}
}

func TestRunCommand_MalformedHeader(t *testing.T) {
	_, _, err := executeCommand(t, "run", "--header", "no-colon", "--log-level", "disabled")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-colon")
}

func TestResetCommand_SkipResetFromConfig(t *testing.T) {
	dir := t.TempDir()
	stateFile := filepath.Join(dir, "catalog.namespace")
	require.NoError(t, os.WriteFile(stateFile, []byte("{}"), 0o644))

	path := filepath.Join(dir, "catbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resetFile: "+stateFile+"\nskipReset: true\nlog:\n  level: disabled\n"), 0o644))

	out, _, err := executeCommand(t, "reset", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "Catalog reset skipped\n", out)
	assert.FileExists(t, stateFile)

	out, _, err = executeCommand(t, "reset", "--config", path, "--skip-reset=false")
	require.NoError(t, err)
	assert.Equal(t, "Removed catalog file\n", out)
	assert.NoFileExists(t, stateFile)
}

func TestResetCommand(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "catalog.namespace")
	require.NoError(t, os.WriteFile(stateFile, []byte("{}"), 0o644))

	out, _, err := executeCommand(t, "reset", "--reset-file", stateFile, "--log-level", "disabled")
	require.NoError(t, err)
	assert.Equal(t, "Removed catalog file\n", out)

	out, _, err = executeCommand(t, "reset", "--reset-file", stateFile, "--log-level", "disabled")
	require.NoError(t, err)
	assert.Equal(t, "Catalog file does not exist\n", out)
}

func TestNamesCommand(t *testing.T) {
	first, _, err := executeCommand(t, "names", "--seed", "42", "--count", "3", "--name-length", "5")
	require.NoError(t, err)
	second, _, err := executeCommand(t, "names", "--seed", "42", "--count", "3", "--name-length", "5")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^1: namespace=[a-z]{5} table=[a-z]{5} renamed=[a-z]{5}$`, lines[0])

	_, _, err = executeCommand(t, "names", "--count", "0")
	assert.Error(t, err)
}

func TestCallCommand(t *testing.T) {
	catalog := &fakeCatalog{}
	server := httptest.NewServer(catalog)
	defer server.Close()

	out, _, err := executeCommand(t, "call", "post", "namespaces",
		"--base-url", server.URL+"/v1/",
		"--json", `{"namespace":["abcdefgh"]}`,
		"--no-color",
		"--log-level", "disabled",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Response code: 200\n")
	assert.Contains(t, out, "Response body: {\"ok\":true}\n")

	calls := catalog.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/v1/namespaces", calls[0].Path)
	assert.JSONEq(t, `{"namespace":["abcdefgh"]}`, calls[0].Body)
}

func TestCallCommand_UnsupportedMethod(t *testing.T) {
	catalog := &fakeCatalog{}
	server := httptest.NewServer(catalog)
	defer server.Close()

	out, _, err := executeCommand(t, "call", "PATCH", "namespaces/abcdefgh",
		"--base-url", server.URL+"/v1/",
		"--log-level", "disabled",
	)
	require.NoError(t, err)
	assert.Equal(t, "Request failed\n", out)
	assert.Empty(t, catalog.Calls())
}

func TestCallCommand_InvalidJSON(t *testing.T) {
	_, _, err := executeCommand(t, "call", "POST", "namespaces", "--json", "{nope", "--log-level", "disabled")
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	out, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "catbench version")

	cmd := NewRootCmd()
	var commands []string
	for _, c := range cmd.Commands() {
		commands = append(commands, c.Name())
	}
	assert.Subset(t, commands, []string{"run", "call", "reset", "names"})
}
