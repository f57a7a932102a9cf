package cmd_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/clrscope/clrscope/cmd"
	"github.com/clrscope/clrscope/inspect"
	"github.com/clrscope/clrscope/peimage/testpe"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Commands = []*cli.Command{cmd.InspectCommand, cmd.ClassifyCommand}
	return app
}

func TestInspectCommandJSON(t *testing.T) {
	dir := t.TempDir()
	managed := filepath.Join(dir, "App.dll")
	junk := filepath.Join(dir, "junk.bin")
	require.NoError(t, os.WriteFile(managed, testpe.Managed(), 0o600))
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o600))
	out := filepath.Join(dir, "report.json")

	err := newApp().Run([]string{
		"clrscope", "inspect",
		"--format", "json",
		"--report-output-path", out,
		managed, junk,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var reports []*inspect.Report
	require.NoError(t, json.Unmarshal(raw, &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "managed", reports[0].Kind)
	assert.Equal(t, "App", reports[0].ShortName)
	assert.Equal(t, "unrecognized", reports[1].Kind)
}

func TestInspectCommandUsesProfile(t *testing.T) {
	dir := t.TempDir()
	managed := filepath.Join(dir, "App.dll")
	require.NoError(t, os.WriteFile(managed, testpe.Managed(), 0o600))

	// The pdb lives in a separate symbol directory named by the profile.
	symbolDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(symbolDir, "App.pdb"),
		append([]byte("BSJB"), make([]byte, 16)...), 0o600))

	prof := filepath.Join(dir, "audit.yaml")
	content := fmt.Sprintf("name: audit\nload_symbols: true\nsymbol_search_paths:\n  - %s\nformat: json\n", symbolDir)
	require.NoError(t, os.WriteFile(prof, []byte(content), 0o600))
	out := filepath.Join(dir, "report.json")

	err := newApp().Run([]string{
		"clrscope", "inspect",
		"--profile", prof,
		"--report-output-path", out,
		managed,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var reports []*inspect.Report
	require.NoError(t, json.Unmarshal(raw, &reports))
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Managed)
	assert.True(t, reports[0].Managed.HasSymbols, "pdb found through the profile's search path")
}

func TestInspectCommandRequiresArgs(t *testing.T) {
	err := newApp().Run([]string{"clrscope", "inspect"})
	assert.Error(t, err)
}

func TestInspectCommandRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.bin")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o600))

	err := newApp().Run([]string{"clrscope", "inspect", "--format", "xml", junk})
	assert.Error(t, err)
}
