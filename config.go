package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"trackdash/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type TrackdashConfig struct {
	HttpListenAddr string        `mapstructure:"http_listen_addr" yaml:"http_listen_addr"`
	Dataset        DatasetConfig `mapstructure:"dataset" yaml:"dataset"`
	Catalog        CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Footer         string        `mapstructure:"footer" yaml:"footer"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	Debug          bool          `mapstructure:"debug" yaml:"debug"`
}

func (c *TrackdashConfig) Write(dst io.Writer) error {
	return yaml.NewEncoder(dst).Encode(c)
}

type DatasetConfig struct {
	// Path of the CSV served on /. Empty: upload only.
	Path       string `mapstructure:"path" yaml:"path"`
	UploadDir  string `mapstructure:"upload_dir" yaml:"upload_dir"`
	LibraryDir string `mapstructure:"library_dir" yaml:"library_dir"`
}

type CatalogConfig struct {
	DB string `mapstructure:"db" yaml:"db"`
}

const envPrefix = "TRACKDASH"

// LoadConfig reads the configuration.
// Precedence: flags > env (TRACKDASH_*) > config file > defaults.
//
// A .env file in the working directory is loaded into the environment
// first, if there is one.
func LoadConfig(cfgFile string) (*TrackdashConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("http_listen_addr", ":8086")
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.upload_dir", model.UploadDir())
	v.SetDefault("dataset.library_dir", "")
	v.SetDefault("catalog.db", filepath.Join(model.DataDir(), "trackdash.db"))
	v.SetDefault("footer", "trackdash: song data exploration")
	v.SetDefault("max_upload_bytes", 64<<20)
	v.SetDefault("debug", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("trackdash")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c TrackdashConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
