package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

type summarized struct{}

func (summarized) Summary() string { return "all good\n" }

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, ForFormat("json"))
	assert.IsType(t, &YAMLFormatter{}, ForFormat("yaml"))
	assert.IsType(t, &TextFormatter{}, ForFormat("text"))
	assert.IsType(t, &JSONFormatter{}, ForFormat("anything-else"))
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	out, err := (&JSONFormatter{}).Format(sample{Name: "a", Score: 87.5}, false)
	require.NoError(t, err)

	var got sample
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, sample{Name: "a", Score: 87.5}, got)
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestJSONFormatterPretty(t *testing.T) {
	out, err := (&JSONFormatter{}).Format(sample{Name: "a"}, true)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"name\"")
}

func TestYAMLFormatter(t *testing.T) {
	out, err := (&YAMLFormatter{}).Format(sample{Name: "a", Score: 87.5}, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: a")
	assert.Contains(t, string(out), "score: 87.5")
}

func TestTextFormatterUsesSummary(t *testing.T) {
	out, err := (&TextFormatter{}).Format(summarized{}, false)
	require.NoError(t, err)
	assert.Equal(t, "all good\n", string(out))
}

func TestTextFormatterFallsBackToJSON(t *testing.T) {
	out, err := (&TextFormatter{}).Format(sample{Name: "a"}, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\"name\": \"a\"")
}
