package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level autoscout configuration.
type Config struct {
	Vocabulary        Vocabulary        `mapstructure:"vocabulary"`
	Weights           Weights           `mapstructure:"weights"`
	Threshold         float64           `mapstructure:"threshold"`
	TopN              int               `mapstructure:"top_n"`
	Workers           int               `mapstructure:"workers"`
	SnippetExtensions []string          `mapstructure:"snippet_extensions"`
	CategoryMap       map[string]string `mapstructure:"category_map"`
	Output            Output            `mapstructure:"output"`
	Watch             Watch             `mapstructure:"watch"`
	DBPath            string            `mapstructure:"db_path"`
}

// Weights defines how the three sub-scores combine into the final score.
type Weights struct {
	Semantic   float64 `mapstructure:"semantic"`
	Automation float64 `mapstructure:"automation"`
	Business   float64 `mapstructure:"business"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Watch defines watch mode settings.
type Watch struct {
	Debounce     time.Duration `mapstructure:"debounce"`
	SlackWebhook string        `mapstructure:"slack_webhook"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. The vocabulary is validated;
// an empty table yields a *ConfigurationError.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile)))
		v.SetConfigType("yaml")
	}

	// Missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	cfg := &Config{
		Vocabulary:        DefaultVocabulary,
		Weights:           DefaultWeights,
		Threshold:         DefaultThreshold,
		TopN:              DefaultTopN,
		Workers:           DefaultWorkers,
		SnippetExtensions: append([]string(nil), DefaultSnippetExtensions...),
		CategoryMap:       map[string]string{},
		Output:            DefaultOutput,
		Watch:             DefaultWatch,
		DBPath:            DBPath(),
	}
	cfg.Vocabulary = cfg.Vocabulary.Normalized()
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vocabulary.stop_words", DefaultVocabulary.StopWords)
	v.SetDefault("vocabulary.urgency", DefaultVocabulary.Urgency)
	v.SetDefault("vocabulary.automation", DefaultVocabulary.Automation)
	v.SetDefault("vocabulary.cadence", DefaultVocabulary.Cadence)
	v.SetDefault("vocabulary.high_value", DefaultVocabulary.HighValue)
	v.SetDefault("vocabulary.integration", DefaultVocabulary.Integration)
	v.SetDefault("vocabulary.import_prefixes", DefaultVocabulary.ImportPrefixes)
	v.SetDefault("vocabulary.declaration_markers", DefaultVocabulary.DeclarationMarkers)
	v.SetDefault("vocabulary.tag_keywords", DefaultVocabulary.TagKeywords)
	v.SetDefault("vocabulary.compatibility_keywords", DefaultVocabulary.CompatibilityKeywords)
	v.SetDefault("weights.semantic", DefaultWeights.Semantic)
	v.SetDefault("weights.automation", DefaultWeights.Automation)
	v.SetDefault("weights.business", DefaultWeights.Business)
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("snippet_extensions", DefaultSnippetExtensions)
	v.SetDefault("category_map", DefaultCategoryMap)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("watch.debounce", DefaultWatch.Debounce)
	v.SetDefault("watch.slack_webhook", "")
	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
}

// finalize validates the loaded values and normalizes them for use.
func (c *Config) finalize() error {
	if err := c.Vocabulary.Validate(); err != nil {
		return err
	}
	c.Vocabulary = c.Vocabulary.Normalized()

	if c.Threshold < 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold must be in [0,1), got %v", c.Threshold)
	}
	if c.Weights.Semantic < 0 || c.Weights.Automation < 0 || c.Weights.Business < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if sum := c.Weights.Semantic + c.Weights.Automation + c.Weights.Business; sum <= 0 || sum > 1+1e-9 {
		return fmt.Errorf("weights must sum to (0,1], got %v", sum)
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	for i, ext := range c.SnippetExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.SnippetExtensions[i] = ext
	}
	categories := make(map[string]string, len(c.CategoryMap))
	for dir, cat := range c.CategoryMap {
		categories[strings.ToLower(dir)] = cat
	}
	c.CategoryMap = categories
	c.DBPath = expandPath(c.DBPath)
	return nil
}

// DBPath returns the default full path to the SQLite run history database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}
