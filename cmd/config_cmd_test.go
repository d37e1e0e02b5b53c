package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/clothespin/internal/config"
)

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "config.yaml")

	res := runCLI(t, "", "config", "init", path)
	require.NoError(t, res.err)
	require.Equal(t, "wrote "+path+"\n", res.stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))

	res = runCLI(t, "", "config", "init", path)
	require.ErrorContains(t, res.err, "already exists")

	res = runCLI(t, "", "config", "init", "--force", path)
	require.NoError(t, res.err)
}

func TestConfigInit_DefaultsToUserConfig(t *testing.T) {
	isolate(t)
	res := runCLI(t, "", "config", "init")
	require.NoError(t, res.err)

	want := filepath.Join(config.Dir(), "config.yaml")
	require.FileExists(t, want)
	require.Contains(t, res.stdout, want)
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)

	res := runCLI(t, "", "config", "path")
	require.NoError(t, res.err)
	require.Equal(t, filepath.Join(config.Dir(), "config.yaml")+"\n", res.stdout)

	writeFile(t, dir, localConfigPath, "output:\n  spans: true\n")
	res = runCLI(t, "", "config", "path")
	require.NoError(t, res.err)
	require.Equal(t, localConfigPath+"\n", res.stdout)
}

func TestConfigSet_AppliesToLaterCommands(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "x.py", "x\n")
	writeFile(t, dir, localConfigPath, config.DefaultConfigTemplate())

	res := runCLI(t, "", "config", "set", "output.format", "json")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "set output.format = json")

	data, err := os.ReadFile(localConfigPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "# How token streams are printed", "comments survive")

	res = runCLI(t, "", "tokenize", "x.py")
	require.NoError(t, res.err)
	require.True(t, strings.HasPrefix(res.stdout, "{"), res.stdout)
}

func TestConfigSet_RejectsInvalidValue(t *testing.T) {
	dir := isolate(t)
	original := "output:\n  format: yaml\n"
	writeFile(t, dir, localConfigPath, original)

	res := runCLI(t, "", "config", "set", "output.format", "xml")
	require.ErrorContains(t, res.err, "output.format")

	data, err := os.ReadFile(localConfigPath)
	require.NoError(t, err)
	require.Equal(t, original, string(data), "file restored")
}

func TestConfigSet_InvalidValueOnNewFile(t *testing.T) {
	isolate(t)
	res := runCLI(t, "", "config", "set", "--", "watch.debounce", "-5s")
	require.ErrorContains(t, res.err, "watch.debounce must not be negative")
	require.NoFileExists(t, filepath.Join(config.Dir(), "config.yaml"))
}

func TestConfigSet_UnknownKey(t *testing.T) {
	isolate(t)
	res := runCLI(t, "", "config", "set", "output.nope", "1")
	require.ErrorContains(t, res.err, `unknown config key "output.nope"`)
}

func TestConfigSet_RepairsBrokenConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "x.py", "x\n")
	writeFile(t, dir, localConfigPath, "output:\n  format: xml\n")

	res := runCLI(t, "", "tokenize", "x.py")
	require.Error(t, res.err)

	res = runCLI(t, "", "config", "set", "output.format", "text")
	require.NoError(t, res.err)

	res = runCLI(t, "", "tokenize", "x.py")
	require.NoError(t, res.err)
}

func TestConfigShow(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, localConfigPath, "output:\n  spans: true\n")

	res := runCLI(t, "", "config", "show")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "output:\n")
	require.Contains(t, res.stdout, "spans: true")
	require.Contains(t, res.stdout, "format: text")
	require.Contains(t, res.stdout, "debounce: 100ms")
}
