package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `name: demo
class_names: [greeting, goodbye, NO_INTENT]
rejection_class: NO_INTENT
pipelines:
  - name: default
    postprocessors:
      - temperature: 1.0
      - threshold: 0.5
  - name: fixed
x_ticks_count: 20
`

func writeProject(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrutiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("SCRUTINY_CONFIG", writeProject(t, projectYAML))
	t.Setenv("SCRUTINY_DATA", "/tmp/scrutiny-data")
	t.Setenv("SCRUTINY_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/scrutiny-data", cfg.DataPath)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"greeting", "goodbye", "NO_INTENT"}, cfg.Project.ClassNames)
	assert.Equal(t, "NO_INTENT", cfg.Project.RejectionClass)
	assert.Equal(t, 20, cfg.Project.XTicksCount)

	require.Len(t, cfg.Project.Pipelines, 2)
	require.Len(t, cfg.Project.Pipelines[0].Postprocessors, 2)
	require.NotNil(t, cfg.Project.Pipelines[0].Postprocessors[1].Threshold)
	assert.Equal(t, 0.5, *cfg.Project.Pipelines[0].Postprocessors[1].Threshold)
	assert.Nil(t, cfg.Project.Pipelines[1].Postprocessors)

	// Vocabulary defaults fill in when the file leaves them out.
	assert.Equal(t, DefaultDataActions, cfg.Project.DataActions)
	assert.Equal(t, DefaultSmartTags["extreme_length"], cfg.Project.SmartTags["extreme_length"])
}

func TestLoad_MissingProjectFile(t *testing.T) {
	t.Setenv("SCRUTINY_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestProjectValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no classes", "pipelines: [{name: p}]\n"},
		{"duplicate classes", "class_names: [a, a]\npipelines: [{name: p}]\n"},
		{"no pipelines", "class_names: [a]\n"},
		{"bad tick count", "class_names: [a]\npipelines: [{name: p}]\nx_ticks_count: 1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SCRUTINY_CONFIG", writeProject(t, tc.body))
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
