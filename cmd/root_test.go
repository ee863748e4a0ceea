package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests mutate process environment and so never run in parallel.

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func clearAPIKey(t *testing.T) {
	t.Helper()
	t.Setenv("EBIRD_API_KEY", "")
	t.Setenv("BIRDSEYE_EBIRD_API_KEY", "")
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/ref/taxonomy/ebird", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"speciesCode":"grycat","comName":"Gray Catbird","sciName":"Dumetella carolinensis"}]`))
	})
	mux.HandleFunc("/v2/product/checklist/view/S12345678", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"subId":"S12345678","locName":"Central Park","obsDt":"2024-03-15 08:30",` +
			`"obs":[{"speciesCode":"grycat","howManyAtleast":3}]}`))
	})
	mux.HandleFunc("/wiki/page/summary/Gray_Catbird", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"thumbnail":{"source":"https://upload.wikimedia.org/catbird-320px.jpg"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	return writeConfigWithLogging(t, baseURL, `logging:
  development: false
  level: error
`)
}

func writeConfigWithLogging(t *testing.T, baseURL, logging string) string {
	t.Helper()
	body := fmt.Sprintf(`ebird:
  api_key: test-key
  base_url: %s/v2
wikipedia:
  base_url: %s/wiki
`, baseURL, baseURL) + logging
	path := filepath.Join(t.TempDir(), "birdseye.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func stderrLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestMissingArgumentPrintsUsage(t *testing.T) {
	clearAPIKey(t)

	res := runCLI(t, "--env-file", filepath.Join(t.TempDir(), "none"))

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout+res.stderr, "birdseye [CHECKLIST_URL]")
	assert.NotContains(t, res.stderr, "Error:")
}

func TestGenerateMissingArgumentPrintsUsage(t *testing.T) {
	res := runCLI(t, "generate", "--env-file", filepath.Join(t.TempDir(), "none"))

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout+res.stderr, "generate CHECKLIST_URL")
}

func TestTooManyArguments(t *testing.T) {
	res := runCLI(t, "a", "b")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: accepts at most 1 arg(s)")
}

func TestMissingAPIKey(t *testing.T) {
	clearAPIKey(t)

	res := runCLI(t,
		"--env-file", filepath.Join(t.TempDir(), "none"),
		"--output-dir", t.TempDir(),
		"https://ebird.org/checklist/S12345678",
	)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: No API key found.")
	assert.Contains(t, res.stderr, "EBIRD_API_KEY=your_key_here")
}

func TestInvalidChecklistURL(t *testing.T) {
	srv := newUpstream(t)

	res := runCLI(t,
		"--config", writeConfig(t, srv.URL),
		"--output-dir", t.TempDir(),
		"https://ebird.org/home",
	)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: could not extract checklist ID")
}

func TestInvalidURLReportsOneLineAndWritesNothing(t *testing.T) {
	clearAPIKey(t)
	t.Setenv("EBIRD_API_KEY", "test-key")
	outDir := filepath.Join(t.TempDir(), "docs")

	res := runCLI(t,
		"--env-file", filepath.Join(t.TempDir(), "none"),
		"--output-dir", outDir,
		"https://ebird.org/home",
	)

	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	lines := stderrLines(res.stderr)
	require.Len(t, lines, 1, res.stderr)
	assert.True(t, strings.HasPrefix(lines[0], "Error: could not extract checklist ID"), lines[0])
	assert.NoDirExists(t, outDir)
}

func TestUpstreamFailureReportsOneLineWithDefaultLogging(t *testing.T) {
	srv := newUpstream(t)

	res := runCLI(t,
		"--config", writeConfigWithLogging(t, srv.URL, ""),
		"--output-dir", t.TempDir(),
		"https://ebird.org/checklist/S404",
	)

	assert.Equal(t, 1, res.code)
	lines := stderrLines(res.stderr)
	require.Len(t, lines, 1, res.stderr)
	assert.True(t, strings.HasPrefix(lines[0], "API error: load checklist"), lines[0])
	assert.NotContains(t, res.stderr, "stacktrace")
}

func TestUnknownChecklistIsAPIError(t *testing.T) {
	srv := newUpstream(t)

	res := runCLI(t,
		"--config", writeConfig(t, srv.URL),
		"--output-dir", t.TempDir(),
		"https://ebird.org/checklist/S404",
	)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "API error: load checklist")
	assert.Contains(t, res.stderr, "404")
}

func TestGenerateWritesSiteAndSummary(t *testing.T) {
	srv := newUpstream(t)
	outDir := filepath.Join(t.TempDir(), "docs")
	metricsFile := filepath.Join(t.TempDir(), "run.prom")

	res := runCLI(t,
		"generate",
		"--config", writeConfig(t, srv.URL),
		"--output-dir", outDir,
		"--metrics-file", metricsFile,
		"https://ebird.org/checklist/S12345678",
	)

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Central Park — March 15, 2024")
	assert.Contains(t, res.stdout, "Species count: 1")
	assert.Contains(t, res.stdout, "3        grycat     Gray Catbird  [+ photo]")
	assert.Contains(t, res.stdout, "Generated site: "+filepath.Join(outDir, "index.html"))
	assert.Contains(t, res.stdout, "serve from docs/ on main branch")

	html, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "https://upload.wikimedia.org/catbird-320px.jpg")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "birdseye_site_generations_total")
}

func TestBareURLWithoutPhotos(t *testing.T) {
	srv := newUpstream(t)
	outDir := t.TempDir()

	res := runCLI(t,
		"--config", writeConfig(t, srv.URL),
		"--output-dir", outDir,
		"--no-photos",
		"https://ebird.org/checklist/S12345678",
	)

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Gray Catbird  [- photo]")

	html, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "No photo available")
}

func TestServeRejectsMissingDirectory(t *testing.T) {
	res := runCLI(t, "serve", "--output-dir", filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: stat site directory")
}
