package store

import (
	"log"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the on-disk database.
type Config interface {
	BasePath() string
}

// LoadConfig reads the .metas config file (yaml implicit) from the working
// directory or METAS_CONFIG_PATH, with METAS_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.metas.db")
	viper.SetConfigName(".metas")
	viper.SetEnvPrefix("METAS")
	viper.AutomaticEnv()

	if override := os.Getenv("METAS_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %v", err)
			return nil, err
		}
	}

	return &fileConfig{Path: viper.GetString("path")}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	expanded, err := homedir.Expand(f.Path)
	if err != nil {
		return f.Path
	}
	return expanded
}
