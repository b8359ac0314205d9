// Package config assembles the pipeline from the environment and an optional
// YAML file. Environment variables win over the file.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"storyboard/pkg/annotate"
	"storyboard/pkg/coref"
	"storyboard/pkg/inference"
	"storyboard/pkg/pipeline"
	"storyboard/pkg/storyboard"
	"storyboard/pkg/translate"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	CorefLLM       = "llm"
	CorefHeuristic = "heuristic"
)

type Storyboard struct {
	Template       string `yaml:"template"`
	NegativePrompt string `yaml:"negative_prompt"`
	Resolution     string `yaml:"resolution"`
}

type Config struct {
	Port string `yaml:"port"`

	Provider string `yaml:"provider"`
	APIKey   string `yaml:"-"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`

	CorefModel      string   `yaml:"coref_model"`
	Translate       bool     `yaml:"translate"`
	SourceLanguages []string `yaml:"source_languages"`
	TargetLanguage  string   `yaml:"target_language"`
	MinConfidence   float64  `yaml:"min_confidence"`

	Storyboard Storyboard    `yaml:"storyboard"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

func Default() *Config {
	return &Config{
		Port:            "8080",
		Provider:        "openai",
		CorefModel:      CorefLLM,
		Translate:       true,
		SourceLanguages: []string{"tl", "fil"},
		TargetLanguage:  "en",
		Storyboard: Storyboard{
			Template:       storyboard.DefaultTemplate,
			NegativePrompt: storyboard.DefaultNegativePrompt,
			Resolution:     storyboard.DefaultResolution,
		},
		CacheTTL: time.Hour,
	}
}

// Load reads PIPELINE_CONFIG (if set) and then the environment.
func Load() (*Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv is Load with an injectable environment lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path := getenv("PIPELINE_CONFIG"); path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile overlays the YAML file at path onto cfg.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}

	// Same precedence as before: an explicit Grok key wins, then Gemini, then OpenAI.
	switch {
	case getenv("GROK_API_KEY") != "":
		c.Provider = "grok"
		c.APIKey = getenv("GROK_API_KEY")
		if v := getenv("GROK_MODEL"); v != "" {
			c.Model = v
		}
	case getenv("GEMINI_API_KEY") != "":
		c.Provider = "gemini"
		c.APIKey = getenv("GEMINI_API_KEY")
		if v := getenv("GEMINI_MODEL"); v != "" {
			c.Model = v
		}
	default:
		c.APIKey = getenv("OPENAI_API_KEY")
		if v := getenv("OPENAI_MODEL"); v != "" {
			c.Model = v
		}
		if v := getenv("OPENAI_BASE_URL"); v != "" {
			c.BaseURL = v
		}
	}

	if v := getenv("COREF_MODEL"); v != "" {
		c.CorefModel = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("TRANSLATE"); v != "" {
		on, err := parseSwitch(v)
		if err != nil {
			return fmt.Errorf("%w: TRANSLATE: %w", ErrInvalidConfig, err)
		}
		c.Translate = on
	}
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func (c *Config) Validate() error {
	switch c.CorefModel {
	case CorefLLM, CorefHeuristic:
	default:
		return fmt.Errorf("%w: coref_model %q (want %s or %s)", ErrInvalidConfig, c.CorefModel, CorefLLM, CorefHeuristic)
	}
	if c.Translate && len(c.SourceLanguages) == 0 {
		return fmt.Errorf("%w: source_languages is empty", ErrInvalidConfig)
	}
	if c.TargetLanguage == "" {
		return fmt.Errorf("%w: target_language is empty", ErrInvalidConfig)
	}
	if c.Storyboard.Template != "" && strings.Count(c.Storyboard.Template, "%s") != 1 {
		return fmt.Errorf("%w: storyboard.template needs exactly one %%s", ErrInvalidConfig)
	}
	if r := c.Storyboard.Resolution; r != "" {
		if _, ok := storyboard.Dimensions[r]; !ok {
			return fmt.Errorf("%w: storyboard.resolution %q", ErrInvalidConfig, r)
		}
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence %v", ErrInvalidConfig, c.MinConfidence)
	}
	return nil
}

// Runtime holds everything built from a Config.
type Runtime struct {
	Inferencer inference.Inferencer
	Pipeline   *pipeline.Pipeline
	Framer     *storyboard.Framer
	Resolution string
	CacheTTL   time.Duration
}

// Build wires the pipeline collaborators. The inferencer is only contacted
// when a request needs it.
func (c *Config) Build(ctx context.Context) (*Runtime, error) {
	inf, err := inference.New(ctx, inference.Options{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		Model:    c.Model,
		BaseURL:  c.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("inferencer: %w", err)
	}

	annotator := annotate.NewProseAnnotator()

	var model coref.Model
	switch c.CorefModel {
	case CorefHeuristic:
		model = coref.NewHeuristicModel(annotator)
	default:
		model = coref.NewLLMModel(inf)
	}

	var normalizer *translate.Normalizer
	if c.Translate {
		normalizer = translate.NewNormalizer(
			translate.WhatlangDetector{
				MinConfidence: c.MinConfidence,
				Languages:     append(slices.Clone(c.SourceLanguages), c.TargetLanguage),
			},
			translate.NewLLMTranslator(inf, annotator),
		)
		normalizer.Sources = c.SourceLanguages
		normalizer.Target = c.TargetLanguage
	}

	framer := storyboard.NewFramer()
	if c.Storyboard.Template != "" {
		framer.Template = c.Storyboard.Template
	}
	if c.Storyboard.NegativePrompt != "" {
		framer.NegativePrompt = c.Storyboard.NegativePrompt
	}

	return &Runtime{
		Inferencer: inf,
		Pipeline:   pipeline.New(normalizer, annotator, model),
		Framer:     framer,
		Resolution: c.Storyboard.Resolution,
		CacheTTL:   c.CacheTTL,
	}, nil
}
