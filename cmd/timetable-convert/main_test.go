package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rao.csv")
	require.NoError(t, os.WriteFile(input, []byte("Name of the Teacher: Rao\nSubject : Biology\nTimings,8:00 to 8:45\nMon,XII A\n"), 0o644))
	output := filepath.Join(dir, "final.csv")

	out := &bytes.Buffer{}
	cmd := newRootCmd(out)
	cmd.SetArgs([]string{"merge", "--json", "-o", output, input})
	require.NoError(t, cmd.Execute())

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.EqualValues(t, 1, results[0]["rows"])
	assert.FileExists(t, output)
}

func TestSplitCommandRequiresInput(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{"split"})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
