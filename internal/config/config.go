package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/jask/starrate/rating"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Rating   RatingConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// RatingConfig holds the widget defaults applied to every subject. A
// subject's own max and half-step setting override Max and AllowHalf.
type RatingConfig struct {
	Max         int    `mapstructure:"max"`
	AllowHalf   bool   `mapstructure:"allow_half"`
	ReadOnly    bool   `mapstructure:"read_only"`
	Size        int    `mapstructure:"size"`
	ShowLabel   bool   `mapstructure:"show_label"`
	FilledColor string `mapstructure:"filled_color"`
	EmptyColor  string `mapstructure:"empty_color"`
	HalfColor   string `mapstructure:"half_color"`
}

// LogConfig holds logger settings. An empty Path disables logging.
type LogConfig struct {
	Level string
	Path  string
}

// Widget converts the rating section into a widget config.
func (r RatingConfig) Widget() rating.Config {
	return rating.Config{
		Max:         r.Max,
		AllowHalf:   r.AllowHalf,
		ReadOnly:    r.ReadOnly,
		Size:        r.Size,
		ShowLabel:   r.ShowLabel,
		FilledColor: rating.Color(r.FilledColor),
		EmptyColor:  rating.Color(r.EmptyColor),
		HalfColor:   rating.Color(r.HalfColor),
	}
}

// Path returns the config file location. STARRATE_CONFIG wins over the
// default under $HOME/.config/starrate.
func Path() string {
	if p := os.Getenv("STARRATE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "starrate", "config.toml")
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "starrate", "starrate.db"))
	v.SetDefault("rating.max", rating.DefaultMax)
	v.SetDefault("rating.allow_half", true)
	v.SetDefault("rating.read_only", false)
	v.SetDefault("rating.size", rating.DefaultSize)
	v.SetDefault("rating.show_label", true)
	v.SetDefault("rating.filled_color", string(rating.DefaultFilledColor))
	v.SetDefault("rating.empty_color", string(rating.DefaultEmptyColor))
	v.SetDefault("rating.half_color", string(rating.DefaultHalfColor))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("STARRATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration from file and env. Env var overrides use prefix STARRATE_.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load with an explicit config file. A missing file is not an
// error; defaults and env still apply.
func LoadFile(path string) (Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to path, creating the config directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("rating.max", cfg.Rating.Max)
	v.Set("rating.allow_half", cfg.Rating.AllowHalf)
	v.Set("rating.read_only", cfg.Rating.ReadOnly)
	v.Set("rating.size", cfg.Rating.Size)
	v.Set("rating.show_label", cfg.Rating.ShowLabel)
	v.Set("rating.filled_color", cfg.Rating.FilledColor)
	v.Set("rating.empty_color", cfg.Rating.EmptyColor)
	v.Set("rating.half_color", cfg.Rating.HalfColor)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Watch reloads path whenever it changes on disk and hands the result to
// fn. Reload errors are passed through as well so callers can report them.
// The watcher lives for the rest of the process.
func Watch(path string, fn func(Config, error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(decode(v))
	})
	v.WatchConfig()
	return nil
}
