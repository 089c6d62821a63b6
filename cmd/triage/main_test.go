package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/triage/internal/testutils"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/aretw0/triage/pkg/support"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "triage version "))
}

func TestRun_QueryArgument(t *testing.T) {
	out, err := execute(t, "", "run", "--offline", "My", "app", "crashes", "on", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Technical")
	assert.Contains(t, out, "Neutral")
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "", "run", "--offline", "--json", "I was charged twice, this is unacceptable")
	require.NoError(t, err)

	var resp runner.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Billing", resp.Category)
	assert.Equal(t, "Negative", resp.Sentiment)
	assert.Equal(t, support.EscalationMessage, resp.Response)
	assert.Equal(t, []string{"categorize", "analyzeSentiment", "escalate"}, resp.Path)
}

func TestRun_JSONLines(t *testing.T) {
	out, err := execute(t, "{\"query\":\"What are your opening hours?\"}\n\"my invoice is wrong\"\n", "run", "--offline", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second runner.Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "General", first.Category)
	assert.Equal(t, "Billing", second.Category)
}

func TestRun_PipedStdin(t *testing.T) {
	out, err := execute(t, "I love the new dashboard, thanks!\n", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Positive")
}

func TestRun_EmptyQueryFails(t *testing.T) {
	out, err := execute(t, "", "run", "--offline", "   ")
	var code exitCode
	require.ErrorAs(t, err, &code)
	assert.Equal(t, exitCode(1), code)
	assert.Contains(t, out, "Error:")
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "", "graph", "--offline", "--path", "categorize,analyzeSentiment,escalate")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"))
	assert.Contains(t, out, "escalate")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "", "validate", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Workflow is valid!")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "", "validate", "--offline", "--config", "nope.yaml")
	assert.Error(t, err)
}

func TestRun_ConfiguredInputLimit(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"triage.yaml": "input:\n  max_size: 5\n"})

	out, err := execute(t, "", "run", "--offline", "--config", filepath.Join(dir, "triage.yaml"), "my invoice is wrong")
	var code exitCode
	require.ErrorAs(t, err, &code)
	assert.Contains(t, out, "exceeds maximum allowed size")
}
