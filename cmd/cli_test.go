package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filestore "github.com/kekayan/runs-cli/internal/adapters/secrets/file"
	"github.com/kekayan/runs-cli/internal/application"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestStatusRequiresAuthentication(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
	assert.Contains(t, err.Error(), "runs login")
}

func TestStatusRendersLatestRuns(t *testing.T) {
	server := newGitHubStub(t)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, false))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "signed in as Octo Cat (octocat)")
	assert.Contains(t, stdout, "octocat/widgets")
	assert.Contains(t, stdout, "Success")
	assert.Contains(t, stdout, "0123456")
}

func TestStatusJSONOutput(t *testing.T) {
	server := newGitHubStub(t)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, false))

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"octocat/widgets\"")
	assert.Contains(t, stdout, "\"success\"")
	assert.Contains(t, stdout, "\"latest_runs\"")
}

func TestStatusShowsFetchingSpinnerMessage(t *testing.T) {
	server := newGitHubStubWithDelay(t, 200*time.Millisecond)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, false))

	_, stderr, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Fetching workflow runs")
}

func TestStatusWaivesStepUpWithoutTerminal(t *testing.T) {
	server := newGitHubStub(t)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, true))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "octocat/widgets")
}

func TestStatusExpiredCredentialForcesLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, false))

	_, _, err := executeCLI(t, home, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	// The forced logout must have purged the stored credential.
	store := filestore.NewStore(filepath.Join(home, ".runs", "secrets"))
	_, err = store.Get(context.Background(), application.DefaultCredentialKey)
	require.Error(t, err)
}

func TestReposListMarksWatchedRepositories(t *testing.T) {
	server := newGitHubStub(t)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, false))

	stdout, _, err := executeCLI(t, home, "repos", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[x] 101 octocat/widgets")
	assert.Contains(t, stdout, "[ ] 102 octocat/gadgets")
}

func TestReposToggleStartsAndStopsWatching(t *testing.T) {
	server := newGitHubStub(t)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)

	stdout, _, err := executeCLI(t, home, "repos", "toggle", "octocat/gadgets")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Watching octocat/gadgets")

	stdout, _, err = executeCLI(t, home, "repos", "toggle", "102")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Stopped watching octocat/gadgets")
}

func TestReposToggleRejectsUnknownRepository(t *testing.T) {
	server := newGitHubStub(t)
	defer server.Close()
	t.Setenv("RUNS_GITHUB_API_URL", server.URL)

	home := t.TempDir()
	seedCredential(t, home)

	_, _, err := executeCLI(t, home, "repos", "toggle", "octocat/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown repository")
}

func TestStepUpEnableShowRoundTrip(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "stepup", "enable")
	require.NoError(t, err)
	assert.Contains(t, stdout, "enabled")

	stdout, _, err = executeCLI(t, home, "stepup", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "step-up: enabled")

	stdout, _, err = executeCLI(t, home, "stepup", "disable")
	require.NoError(t, err)
	assert.Contains(t, stdout, "disabled")

	stdout, _, err = executeCLI(t, home, "stepup", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "step-up: disabled")
}

func TestLogoutRemovesCredentialAndSelection(t *testing.T) {
	home := t.TempDir()
	seedCredential(t, home)
	require.NoError(t, writeSettingsFixture(home, false))

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out.")

	_, err = os.Stat(filepath.Join(home, ".runs", "settings.toml"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = executeCLI(t, home, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newGitHubStub(t *testing.T) *httptest.Server {
	return newGitHubStubWithDelay(t, 0)
}

func newGitHubStubWithDelay(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}

		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/user":
			_, _ = fmt.Fprint(w, `{"id":1,"login":"octocat","name":"Octo Cat"}`)
		case "/user/repos":
			_, _ = fmt.Fprint(w, `[
				{"id":101,"name":"widgets","full_name":"octocat/widgets","owner":{"id":1,"login":"octocat"},"default_branch":"main","private":false},
				{"id":102,"name":"gadgets","full_name":"octocat/gadgets","owner":{"id":1,"login":"octocat"},"default_branch":"main","private":true}
			]`)
		case "/repos/octocat/widgets/actions/runs":
			_, _ = fmt.Fprint(w, `{"total_count":1,"workflow_runs":[
				{"id":9001,"name":"CI","head_sha":"0123456789abcdef","status":"completed","conclusion":"success",
				 "created_at":"2026-08-27T10:00:00Z","html_url":"https://github.com/octocat/widgets/actions/runs/9001",
				 "repository":{"name":"widgets","full_name":"octocat/widgets"}}
			]}`)
		case "/repos/octocat/gadgets/actions/runs":
			_, _ = fmt.Fprint(w, `{"total_count":0,"workflow_runs":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
}

func seedCredential(t *testing.T, home string) {
	t.Helper()

	store := filestore.NewStore(filepath.Join(home, ".runs", "secrets"))
	require.NoError(t, store.Put(context.Background(), application.DefaultCredentialKey, "token-123"))
}

func writeSettingsFixture(home string, requireStepUp bool) error {
	configDir := filepath.Join(home, ".runs")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	settings := fmt.Sprintf(`version = 1

[selection]
repository_ids = [101]

[security]
require_step_up = %t
`, requireStepUp)

	return os.WriteFile(filepath.Join(configDir, "settings.toml"), []byte(settings), 0o600)
}
