package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	confreader "github.com/next-exp/offline_conf_reader/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fixturePath = "../pkg/testdata/np04_coldbox.data.xml"

func extractFixture(t *testing.T) *confreader.Extractor {
	t.Helper()
	e, err := confreader.NewExtractor(fixturePath, "np04-coldbox")
	require.NoError(t, err)
	return e
}

func TestWriteResultYAML(t *testing.T) {
	e := extractFixture(t)
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, e, formatYAML))

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Content, 1)
	mapping := doc.Content[0]

	var keys []string
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	want := []string{"oks_file_path", "session_name"}
	for _, variable := range e.Variables() {
		want = append(want, variable.Name)
	}
	assert.Equal(t, want, keys)

	var result struct {
		Session     string           `yaml:"session_name"`
		Buffer      *int64           `yaml:"buffer"`
		PulsePeriod map[string]int64 `yaml:"pulse_period"`
		APAs        []string         `yaml:"APAs"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "np04-coldbox", result.Session)
	assert.Nil(t, result.Buffer)
	assert.Equal(t, e.PulsePeriod, result.PulsePeriod)
	assert.Equal(t, e.APAs, result.APAs)
	assert.Contains(t, buf.String(), "buffer: null\n")
}

func TestWriteResultJSON(t *testing.T) {
	e := extractFixture(t)
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, e, formatJSON))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Len(t, result, 18)
	assert.Nil(t, result["phases"])
	assert.Equal(t, map[string]any{"wiec-crp4-wib101": true, "wiec-crp4-wib102": false}, result["pulser"])
	assert.Equal(t, float64(4096), result["pulse_period"].(map[string]any)["wiec-crp4-wib102"])
}

func TestWriteResultInvalidFormat(t *testing.T) {
	e, err := confreader.NewExtractor(confreader.DummyPath, "")
	require.NoError(t, err)
	assert.Error(t, writeResult(&bytes.Buffer{}, e, "toml"))
}

func TestWriteVariables(t *testing.T) {
	e, err := confreader.NewExtractor(confreader.DummyPath, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeVariables(&buf, e.Variables()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 16)
	assert.True(t, strings.HasPrefix(lines[0], "buffer "))
	assert.True(t, strings.HasSuffix(lines[0], "not implemented"))
	assert.True(t, strings.HasPrefix(lines[1], "ac_couple "))
	assert.True(t, strings.HasSuffix(lines[1], " extracted"))
}
