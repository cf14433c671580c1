package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const riverScenario = `name: river_title
description: "A single contains leaf on a legacy text field"
config:
  dialect: legacy
  fields:
    title: { type: text }
condition:
  or:
    - condition: { field: title, operator: contains, value: river }
documents:
  - id: 7
    fields: { title: "Old Man River" }
  - id: 8
    fields: { title: "Quick Fox" }
assertions:
  - type: query
    value: "title:river"
  - type: hits
    engine: memory
    hits: [7]
`

// scenarioDir lays out dir/scenarios/<name>.yaml and returns the
// scenarios directory.
func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	out, _, err := execute(t, "", "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Contains(t, out, "Error [E002]")
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	out, _, err := execute(t, "", "--format", "json", "test", dir)
	require.NoError(t, err, out)

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 5, result.Passed)
	assert.Zero(t, result.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	out, _, err := execute(t, "", "test", dir, "--filter", "legacy_*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ legacy_or_bits")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandEmptyDir(t *testing.T) {
	dir := scenarioDir(t, nil)

	out, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"river.yaml": riverScenario})
	goldenPath := filepath.Join(filepath.Dir(dir), "golden", "river_title.golden")

	_, _, err := execute(t, "", "test", dir, "--update")
	require.NoError(t, err)

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, "scenario: river_title\ndialect: legacy\nquery: title:river\nhits[memory]: [7]\nhits[sqlite]: [7]\n", string(data))

	// The freshly written snapshot matches.
	_, _, err = execute(t, "", "test", dir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"river.yaml": riverScenario})
	goldenDir := filepath.Join(t.TempDir(), "snapshots")
	require.NoError(t, os.MkdirAll(goldenDir, 0755))
	writeFile(t, goldenDir, "river_title.golden", "scenario: river_title\nquery: something else\n")

	out, _, err := execute(t, "", "test", dir, "--golden", goldenDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ river_title")
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestTestCommandFailingAssertion(t *testing.T) {
	failing := strings.Replace(riverScenario, `value: "title:river"`, `value: "title:fox"`, 1)
	dir := scenarioDir(t, map[string]string{"river.yaml": failing})

	out, _, err := execute(t, "", "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, result.Scenarios, 1)
	assert.False(t, result.Scenarios[0].Pass)
	assert.Contains(t, result.Scenarios[0].Errors[0], `expected query "title:fox", got "title:river"`)
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"broken.yaml": "name: broken\n"})

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"a.yaml":    riverScenario,
		"b.yml":     riverScenario,
		"notes.txt": "ignored",
	})

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = findScenarioFiles(dir, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml")}, files)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
}
