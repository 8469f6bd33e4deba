package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Database DatabaseConfig `yaml:"database"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// DataConfig points at the stations CSV and how to read it.
type DataConfig struct {
	Path       string `yaml:"path"`
	Layout     string `yaml:"layout"`
	LayoutsDir string `mapstructure:"layouts_dir" yaml:"layouts_dir"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Title       string `yaml:"title"`
	MapZoom     int    `mapstructure:"map_zoom" yaml:"map_zoom"`
	TableHeight int    `mapstructure:"table_height" yaml:"table_height"`
}

// LogConfig controls where the dashboard writes its log.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultPath returns the config file used when neither a flag nor
// CHARGEMAP_CONFIG names one.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "chargemap", "config.toml")
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("data.path", "Estaciones_gas_electricas.csv")
	v.SetDefault("data.layout", "epm")
	v.SetDefault("data.layouts_dir", filepath.Join(home, ".config", "chargemap"))
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "chargemap", "chargemap.db"))
	v.SetDefault("ui.title", "Dashboard de Estaciones de Carga EPM")
	v.SetDefault("ui.map_zoom", 10)
	v.SetDefault("ui.table_height", 15)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "chargemap", "chargemap.log"))
	v.SetDefault("log.level", "info")
}

// Load reads configuration from file and env. An explicit path wins over
// CHARGEMAP_CONFIG, which wins over ~/.config/chargemap/config.toml. Env var
// overrides use prefix CHARGEMAP_.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("CHARGEMAP_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "chargemap"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CHARGEMAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing config file is fine; defaults and env still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(explicit && errors.Is(err, fs.ErrNotExist)) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.MapZoom < 1 || c.UI.MapZoom > 18 {
		c.UI.MapZoom = 10
	}
	if c.UI.TableHeight < 5 {
		c.UI.TableHeight = 15
	}
	return c, nil
}

// Save writes cfg to path, creating the config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("data.path", cfg.Data.Path)
	v.Set("data.layout", cfg.Data.Layout)
	v.Set("data.layouts_dir", cfg.Data.LayoutsDir)
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.map_zoom", cfg.UI.MapZoom)
	v.Set("ui.table_height", cfg.UI.TableHeight)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
