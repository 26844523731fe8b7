package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfiguration(), config)
	assert.Equal(t, formatYAML, config.OutputFormat)
	assert.True(t, config.NoDB)
	assert.Equal(t, 4, config.CompressionLevel)
}

func TestLoadConfigurationFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.json")
	content := `{"file_in": "np04_coldbox.data.xml", "session": "np04-coldbox", "verbosity": 2, "output_format": "json"}`
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))

	config, err := LoadConfiguration(filename)
	require.NoError(t, err)
	assert.Equal(t, "np04_coldbox.data.xml", config.FileIn)
	assert.Equal(t, "np04-coldbox", config.Session)
	assert.Equal(t, 2, config.Verbosity)
	assert.Equal(t, formatJSON, config.OutputFormat)
	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, "DUNEDAQConf", config.DBName)
}

func TestLoadConfigurationErrors(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	filename := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(filename, []byte(`{"file_in": `), 0o644))
	_, err = LoadConfiguration(filename)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := defaultConfiguration()
	valid.FileIn = "session.data.xml"
	valid.Session = "s"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Configuration)
		errMsg string
	}{
		{"no file", func(c *Configuration) { c.FileIn = "" }, "file_in"},
		{"no session", func(c *Configuration) { c.Session = "" }, "session"},
		{"bad format", func(c *Configuration) { c.OutputFormat = "xml" }, "output format"},
		{"hdf5 without file", func(c *Configuration) { c.WriteHDF5 = true }, "file_out"},
		{"compression", func(c *Configuration) { c.CompressionLevel = 10 }, "compression_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.modify(&config)
			assert.ErrorContains(t, config.Validate(), tt.errMsg)
		})
	}

	dummy := defaultConfiguration()
	dummy.FileIn = "dummy"
	assert.NoError(t, dummy.Validate())
}
