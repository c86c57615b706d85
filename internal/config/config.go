package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Postprocessor describes one tunable stage applied after raw model inference.
// A nil field means the stage does not carry that knob.
type Postprocessor struct {
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Threshold   *float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Pipeline describes one configured inference pipeline. A nil Postprocessors
// slice marks the pipeline's postprocessing as fixed (not editable).
type Pipeline struct {
	Name           string          `yaml:"name" json:"name"`
	Postprocessors []Postprocessor `yaml:"postprocessors" json:"postprocessors"`
}

// Project holds the per-project analysis configuration: the class and tag
// vocabularies plus the pipeline definitions. Report builders receive these
// as immutable inputs; nothing in the reporting core reads them globally.
type Project struct {
	Name           string              `yaml:"name"`
	ClassNames     []string            `yaml:"class_names"`
	RejectionClass string              `yaml:"rejection_class"`
	Pipelines      []Pipeline          `yaml:"pipelines"`
	DataActions    []string            `yaml:"data_actions"`
	SmartTags      map[string][]string `yaml:"smart_tags"`
	XTicksCount    int                 `yaml:"x_ticks_count"`
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Project  Project
	DataPath string
	Port     int
}

// DefaultDataActions is the curation-action tag vocabulary used when the
// project file leaves data_actions empty.
var DefaultDataActions = []string{
	"relabel",
	"augment_with_similar",
	"define_new_class",
	"merge_classes",
	"remove",
	"investigate",
}

// DefaultSmartTags maps each smart-tag family to its tag vocabulary, used
// when the project file leaves smart_tags empty.
var DefaultSmartTags = map[string][]string{
	"extreme_length":      {"multiple_sentences", "long_utterance", "short_utterance"},
	"partial_syntax":      {"missing_subj", "missing_verb", "missing_obj"},
	"dissimilar":          {"conflicting_neighbors_train", "conflicting_neighbors_eval", "no_close_train", "no_close_eval"},
	"almost_correct":      {"correct_top_3", "correct_low_conf"},
	"behavioral_testing":  {"failed_fuzzy_matching", "failed_punctuation"},
	"pipeline_comparison": {"incorrect_for_all_pipelines"},
	"uncertain":           {"high_epistemic_uncertainty"},
}

// Load loads the configuration from .env files, environment variables and the
// YAML project file.
func Load() (*AppConfig, error) {
	// Try the executable's directory first, then the working directory.
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := getEnv("SCRUTINY_DATA", "")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	port, err := strconv.Atoi(getEnv("SCRUTINY_PORT", "8091"))
	if err != nil {
		return nil, eris.Wrap(err, "invalid SCRUTINY_PORT")
	}

	projectPath := getEnv("SCRUTINY_CONFIG", "scrutiny.yaml")
	project, err := loadProject(projectPath)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		Project:  *project,
		DataPath: dataPath,
		Port:     port,
	}, nil
}

func loadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read project config %q", path)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "failed to parse project config %q", path)
	}
	applyDefaults(&p)
	if err := p.Validate(); err != nil {
		return nil, eris.Wrapf(err, "invalid project config %q", path)
	}

	log.Info().Str("path", path).Str("project", p.Name).Msg("Loaded project configuration")
	return &p, nil
}

func applyDefaults(p *Project) {
	if p.RejectionClass == "" {
		p.RejectionClass = "REJECTION_CLASS"
	}
	if len(p.DataActions) == 0 {
		p.DataActions = append([]string{}, DefaultDataActions...)
	}
	if len(p.SmartTags) == 0 {
		p.SmartTags = make(map[string][]string, len(DefaultSmartTags))
		for family, tags := range DefaultSmartTags {
			p.SmartTags[family] = append([]string{}, tags...)
		}
	}
	if p.XTicksCount == 0 {
		p.XTicksCount = 10
	}
}

// Validate checks the invariants the reporting core relies on.
func (p *Project) Validate() error {
	if len(p.ClassNames) == 0 {
		return eris.New("class_names must not be empty")
	}
	seen := make(map[string]bool, len(p.ClassNames))
	for _, name := range p.ClassNames {
		if seen[name] {
			return eris.Errorf("duplicate class name %q", name)
		}
		seen[name] = true
	}
	if len(p.Pipelines) == 0 {
		return eris.New("at least one pipeline must be configured")
	}
	if p.XTicksCount < 2 {
		return eris.Errorf("x_ticks_count must be at least 2, got %d", p.XTicksCount)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
