// Package config loads the romanizer configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	"langromanizer/errors"
	"langromanizer/logger"
	"langromanizer/model"
)

// Config is the full application configuration.
type Config struct {
	Settings SettingsConfig `yaml:"settings"`
	Log      LogConfig      `yaml:"log"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Store    StoreConfig    `yaml:"store"`
}

// SettingsConfig holds the user settings. RomanizeByDefault is true unless
// the file or the environment sets it; an env-default would also replace an
// explicit false, so Load presets it instead.
type SettingsConfig struct {
	RomanizeByDefault bool   `yaml:"toggle_romanize"   env:"LANGROMANIZER_TOGGLE_ROMANIZE"`
	ShowDebugLog      bool   `yaml:"show_debug"        env:"LANGROMANIZER_SHOW_DEBUG"        env-default:"false"`
	RomajiStyle       string `yaml:"romaji_style"      env:"LANGROMANIZER_ROMAJI_STYLE"      env-default:"hepburn" validate:"oneof=hepburn passport nippon"`
	PinyinToneMarks   bool   `yaml:"pinyin_tone_marks" env:"LANGROMANIZER_PINYIN_TONE_MARKS" env-default:"false"`
}

// LogConfig configures the slog logger and the debug dumps.
type LogConfig struct {
	Level   string `yaml:"level"    env:"LANGROMANIZER_LOG_LEVEL"    env-default:"info" validate:"oneof=debug info warn warning error"`
	Format  string `yaml:"format"   env:"LANGROMANIZER_LOG_FORMAT"   env-default:"text" validate:"oneof=text json"`
	DumpDir string `yaml:"dump_dir" env:"LANGROMANIZER_LOG_DUMP_DIR" env-default:"logs"`
}

// AnalyzerConfig configures the Japanese analyzer.
type AnalyzerConfig struct {
	Dictionary  string        `yaml:"dictionary"   env:"LANGROMANIZER_ANALYZER_DICTIONARY"   env-default:"ipa" validate:"oneof=ipa uni"`
	InitTimeout time.Duration `yaml:"init_timeout" env:"LANGROMANIZER_ANALYZER_INIT_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

// StoreConfig selects where published results are kept. The badger driver
// with an empty path keeps its database in memory.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"LANGROMANIZER_STORE_DRIVER" env-default:"memory" validate:"oneof=memory badger"`
	Path   string `yaml:"path"   env:"LANGROMANIZER_STORE_PATH"`
}

// Load reads configuration from the YAML file at path, then the
// environment. Priority: ENV > YAML > defaults. An empty path reads the
// environment and defaults only.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaults holds the values that cannot be expressed as env-default tags.
// Decoding leaves them alone unless a key is present.
func defaults() Config {
	return Config{Settings: SettingsConfig{RomanizeByDefault: true}}
}

var validate = validator.New()

// Validate checks field values. Load calls it automatically.
func (c *Config) Validate() error {
	c.Settings.RomajiStyle = strings.ToLower(c.Settings.RomajiStyle)
	c.Log.Level = strings.ToLower(c.Log.Level)

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.Validationf("config: %s must satisfy %s %s (got %v)",
				fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return errors.Validationf("config: %v", err)
	}
	return nil
}

// Model returns the settings as the pipeline reads them.
func (c *Config) Model() model.Settings {
	return model.Settings{
		RomanizeByDefault:   c.Settings.RomanizeByDefault,
		ShowDebugLog:        c.Settings.ShowDebugLog,
		JapaneseRomajiStyle: model.RomajiStyle(c.Settings.RomajiStyle),
		PinyinToneMarks:     c.Settings.PinyinToneMarks,
	}
}

// LogLevel returns the configured level, lowered to debug when debug
// logging is enabled in the settings.
func (c *Config) LogLevel() slog.Level {
	if c.Settings.ShowDebugLog {
		return slog.LevelDebug
	}
	return logger.ParseLevel(c.Log.Level)
}
