package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"curse-modpack/addon"
	"curse-modpack/logger"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	appName = "curse-modpack"

	DefaultProxyURL = "https://curse-rest-proxy.azurewebsites.net/api"
	DefaultFeedURL  = "http://clientupdate-v6.cursecdn.com/feed/addons/{id}/v10/complete.json.bz2"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a .env file and/or environment variables.
type Config struct {
	GameName        string `mapstructure:"GAME_NAME"`
	GameID          int    `mapstructure:"GAME_ID"`
	GameVersion     string `mapstructure:"GAME_VERSION"`
	PackFile        string `mapstructure:"PACK_FILE"`
	ModsDir         string `mapstructure:"MODS_DIR"`
	MinRelease      string `mapstructure:"MIN_RELEASE"`
	KeepOldVersions bool   `mapstructure:"KEEP_OLD_VERSIONS"`
	UserAgent       string `mapstructure:"USERAGENT"`
	CurseProxyURL   string `mapstructure:"CURSE_PROXY_URL"`
	CurseFeedURL    string `mapstructure:"CURSE_FEED_URL"`
	DataDir         string `mapstructure:"DATA_DIR"`
	CacheDir        string `mapstructure:"CACHE_DIR"`

	DatabasePath string `mapstructure:"-"` // derived
	TokenPath    string `mapstructure:"-"` // derived
	ArchiveDir   string `mapstructure:"-"` // derived
}

var envKeys = []string{
	"GAME_NAME", "GAME_ID", "GAME_VERSION", "PACK_FILE", "MODS_DIR", "MIN_RELEASE",
	"KEEP_OLD_VERSIONS", "USERAGENT", "CURSE_PROXY_URL", "CURSE_FEED_URL", "DATA_DIR", "CACHE_DIR",
}

// Game returns the game the configuration targets.
func (c Config) Game() addon.Game {
	return addon.Game{ID: c.GameID, Name: c.GameName, Version: c.GameVersion}
}

// Release returns the parsed minimal release.
func (c Config) Release() (addon.Release, error) {
	return addon.ParseRelease(c.MinRelease)
}

// LoadConfig reads configuration from the .env file in path and the environment.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		logger.Log.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()
	for _, key := range envKeys {
		if err := viper.BindEnv(strings.ToLower(key), key); err != nil {
			logger.Log.Warnw("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	processConfigDefaults(&config)
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func processConfigDefaults(config *Config) {
	if config.GameName == "" {
		config.GameName = "Minecraft"
	}
	if config.GameID == 0 {
		config.GameID = 432
	}
	if config.PackFile == "" {
		config.PackFile = "modpack.yml"
	}
	if config.ModsDir == "" {
		config.ModsDir = "mods"
	}
	if config.MinRelease == "" {
		config.MinRelease = "release"
	}
	if config.CurseProxyURL == "" {
		config.CurseProxyURL = DefaultProxyURL
	}
	if config.CurseFeedURL == "" {
		config.CurseFeedURL = DefaultFeedURL
	}
	if config.DataDir == "" {
		config.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	if config.CacheDir == "" {
		config.CacheDir = filepath.Join(xdg.CacheHome, appName)
	}

	// Viper does not coerce bools from env without SetDefault; parse the raw value.
	if keepOldStr := viper.GetString("KEEP_OLD_VERSIONS"); keepOldStr != "" {
		keepOld, err := strconv.ParseBool(keepOldStr)
		if err != nil {
			logger.Log.Warnw("Invalid value for KEEP_OLD_VERSIONS, defaulting to false", "value", keepOldStr, "error", err)
			keepOld = false
		}
		config.KeepOldVersions = keepOld
	}

	if config.UserAgent == "" {
		config.UserAgent = appName + "/dev (unknown-user)"
		logger.Log.Warn("USERAGENT not set in config or environment, using default.")
	}
}

func validateAndEnsureDirectories(config *Config) error {
	if _, err := config.Release(); err != nil {
		return fmt.Errorf("MIN_RELEASE: %w", err)
	}

	config.ArchiveDir = filepath.Join(config.DataDir, "versions")
	for _, dir := range []string{config.DataDir, config.CacheDir, config.ArchiveDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			logger.Log.Infow("Directory does not exist, creating it", "path", dir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("checking %s: %w", dir, err)
		}
	}

	config.DatabasePath = filepath.Join(config.CacheDir, "mods-"+strings.ToLower(config.GameName)+".db")
	config.TokenPath = filepath.Join(config.DataDir, "token.yaml")
	return nil
}
