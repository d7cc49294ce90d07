package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/pnpclaim/pkg/settings"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSettingsSet_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "controller.yaml")
	t.Setenv(settings.EnvSettings, path)

	_, err := executeRoot(t, "settings", "set", "host", "dnac.example.net")
	require.NoError(t, err)
	_, err = executeRoot(t, "settings", "set", "username", "ops")
	require.NoError(t, err)
	_, err = executeRoot(t, "settings", "set", "insecure", "true")
	require.NoError(t, err)
	out, err := executeRoot(t, "settings", "set", "timeout", "30s")
	require.NoError(t, err)
	assert.Equal(t, "Timeout set to: 30s\n", out)

	s, err := settings.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{
		Host:     "dnac.example.net",
		Username: "ops",
		Insecure: true,
		Timeout:  "30s",
	}, *s)
}

func TestSettingsSet_Rejects(t *testing.T) {
	t.Setenv(settings.EnvSettings, filepath.Join(t.TempDir(), "controller.yaml"))

	tests := []struct {
		name string
		args []string
	}{
		{"unknown setting", []string{"settings", "set", "password", "x"}},
		{"bad bool", []string{"settings", "set", "insecure", "maybe"}},
		{"bad duration", []string{"settings", "set", "timeout", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeRoot(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSettingsShowAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller.yaml")
	t.Setenv(settings.EnvSettings, path)
	require.NoError(t, (&settings.Settings{Host: "h", Password: "p"}).SaveTo(path))

	out, err := executeRoot(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings file: "+path)
	assert.Contains(t, out, "host       h\n")
	assert.Contains(t, out, "password   (set)\n")
	assert.Contains(t, out, "username   (not set)\n")
	assert.NotContains(t, out, " p\n")

	out, err = executeRoot(t, "settings", "clear")
	require.NoError(t, err)
	assert.Equal(t, "All settings cleared.\n", out)

	s, err := settings.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{}, *s)

	out, err = executeRoot(t, "settings", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}
