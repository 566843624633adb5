package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knapsack = `
variables: [a, b, c]
rows:
- name: capacity
  terms: {a: 2, b: 3, c: 4}
  upper: 5
- name: pick
  terms: {a: 1, b: 1, c: 1}
  lower: 1
  upper: 2
objective:
  sense: max
  terms: {a: 3, b: 4, c: 5}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSolveSat(t *testing.T) {
	out, err := run(t, "solve", "-f", writeFile(t, "knapsack.yaml", knapsack), "--silent")
	require.NoError(t, err)
	assert.Contains(t, out, "status: OPTIMAL\nprimal: FEASIBLE_POINT\nobjective: 7\n")
	assert.Contains(t, out, "a = 1\nb = 1\nc = 0\n")
}

func TestSolveManualMode(t *testing.T) {
	out, err := run(t, "solve", "-f", writeFile(t, "knapsack.yaml", knapsack), "--mode", "manual", "--silent")
	require.NoError(t, err)
	assert.Contains(t, out, "objective: 7\n")
}

func TestSolveMockFromConfig(t *testing.T) {
	cfg := writeFile(t, "bridgectl.yaml", "bridgectl:\n  backend: mock\n  timeLimit: 1s\n")
	out, err := run(t, "solve", "-f", writeFile(t, "knapsack.yaml", knapsack), "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "status: OPTIMAL\n")
	assert.Contains(t, out, "objective: 0\n")
}

func TestSolveInfeasible(t *testing.T) {
	problem := writeFile(t, "infeasible.yaml", `
variables: [a]
rows:
- terms: {a: 1}
  lower: 2
`)
	out, err := run(t, "solve", "-f", problem, "--silent")
	require.NoError(t, err)
	assert.Contains(t, out, "status: INFEASIBLE\n")
	assert.NotContains(t, out, "objective:")
}

func TestSolveErrors(t *testing.T) {
	problem := writeFile(t, "knapsack.yaml", knapsack)

	_, err := run(t, "solve")
	assert.Error(t, err, "problem flag is required")

	_, err = run(t, "solve", "-f", problem, "--backend", "glpk")
	assert.Error(t, err)

	_, err = run(t, "solve", "-f", problem, "--mode", "eager")
	assert.Error(t, err)

	_, err = run(t, "solve", "-f", writeFile(t, "bad.yaml", "variables: [a]\nobjective: {sense: min, terms: {b: 1}}\n"))
	assert.Error(t, err)
}

func TestSupports(t *testing.T) {
	out, err := run(t, "supports", "--backend", "mock")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "native")
	assert.Contains(t, out, "objective")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "bridgectl version")
}
