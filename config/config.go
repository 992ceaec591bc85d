// Package config loads the pipeline configuration from YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/grailbox/lifeboat/estimator"
	"github.com/grailbox/lifeboat/pkg/errors"
)

// Config holds the full pipeline configuration.
type Config struct {
	// TrainPath and TestPath point at the labelled training CSV and the
	// unlabelled test CSV.
	TrainPath string `yaml:"train_path"`
	TestPath  string `yaml:"test_path"`

	// Formula is the model formula, e.g. "Survived ~ Pclass + Sex + Age".
	Formula string `yaml:"formula"`

	// Algorithms are trained in listed order.
	Algorithms []string `yaml:"algorithms"`

	// Preprocess lists design-matrix directives ("center", "scale").
	Preprocess []string `yaml:"preprocess"`

	// Categorical forces columns to categorical even when numeric-looking.
	Categorical []string `yaml:"categorical"`

	// SearchWidth bounds the hyperparameter grid per algorithm.
	SearchWidth int `yaml:"search_width"`

	CV    CVConfig    `yaml:"cv"`
	Store StoreConfig `yaml:"store"`

	// SubmissionPath receives the prediction CSV.
	SubmissionPath string `yaml:"submission_path"`

	// IDColumn names the identifier column carried into the submission.
	IDColumn string `yaml:"id_column"`

	// PlotPath, when set, receives the model comparison chart.
	PlotPath string `yaml:"plot_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// CVConfig configures cross validation.
type CVConfig struct {
	Folds    int    `yaml:"folds"`
	Repeats  int    `yaml:"repeats"`
	Parallel bool   `yaml:"parallel"`
	Metric   string `yaml:"metric"`
	Seed     uint64 `yaml:"seed"`
}

// StoreConfig selects and configures the artifact store.
type StoreConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the directory (file backend) or database file (sqlite
	// backend).
	Path string `yaml:"path"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		TrainPath:  "train.csv",
		TestPath:   "test.csv",
		Formula:    "Survived ~ .",
		Algorithms: []string{"knn", "nb", "glm"},
		Preprocess: []string{"center", "scale"},
		Categorical: []string{
			"Survived", "Pclass", "Sex", "Embarked",
		},
		SearchWidth: 5,
		CV: CVConfig{
			Folds:   10,
			Repeats: 3,
			Metric:  "roc_auc",
			Seed:    7,
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "artifacts",
		},
		SubmissionPath: "submission.csv",
		IDColumn:       "PassengerId",
		LogLevel:       "info",
	}
}

// LoadConfig reads a YAML config file merged over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.TrainPath == "" {
		return errors.New("train_path is required")
	}
	if c.Formula == "" {
		return errors.New("formula is required")
	}
	if len(c.Algorithms) == 0 {
		return errors.New("at least one algorithm is required")
	}
	for _, algo := range c.Algorithms {
		if !knownAlgorithm(algo) {
			return errors.Newf("unknown algorithm %q (registered: %v)", algo, estimator.Algorithms())
		}
	}
	if c.SearchWidth < 1 {
		return errors.New("search_width must be >= 1")
	}
	if c.CV.Folds < 2 {
		return errors.New("cv.folds must be >= 2")
	}
	if c.CV.Repeats < 1 {
		return errors.New("cv.repeats must be >= 1")
	}
	if c.CV.Metric != "" && c.CV.Metric != "roc_auc" {
		return errors.Newf("unsupported cv.metric %q", c.CV.Metric)
	}
	switch c.Store.Backend {
	case "file", "sqlite":
	default:
		return errors.Newf("unsupported store backend %q (use file or sqlite)", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Newf("unsupported log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

func knownAlgorithm(name string) bool {
	for _, algo := range estimator.Algorithms() {
		if algo == name {
			return true
		}
	}
	return false
}
