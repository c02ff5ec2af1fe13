package providers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"bmac/internal/structures"
)

const appName = "bmac-analyzer"

// NewConfigProvider loads configuration with the usual precedence:
// defaults, then the config file, then BMAC_* environment variables.
// Without an explicit --config the file is searched in the working
// directory and ~/.bmac and is optional.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)
	bindEnvs(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bmac"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir for cache: %w", err)
		}
		conf.Cache.Dir = filepath.Join(home, ".bmac-cache")
	}

	cnfValidator := NewCnfValidator(&conf)
	if err := cnfValidator.Validate(); err != nil {
		return nil, err
	}

	conf.AppName = appName
	conf.Path = v.ConfigFileUsed()
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseUrl", "https://app.buymeacoffee.com/api/creators/slug")
	v.SetDefault("api.pageSize", 10)
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.compress", false)
	v.SetDefault("analyzer.coffeePrice", 5.0)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "")
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("responseCache.enabled", true)
	v.SetDefault("responseCache.size", 16)
	v.SetDefault("responseCache.ttl", "60s")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("refresh.interval", "0s")
	v.SetDefault("refresh.creators", []string{})
}

func bindEnvs(v *viper.Viper) {
	v.BindEnv("api.baseUrl", "BMAC_API_BASE_URL")
	v.BindEnv("api.pageSize", "BMAC_PAGE_SIZE")
	v.BindEnv("api.timeout", "BMAC_API_TIMEOUT")
	v.BindEnv("cache.enabled", "BMAC_CACHE_ENABLED")
	v.BindEnv("cache.dir", "BMAC_CACHE_DIR")
	v.BindEnv("cache.ttl", "BMAC_CACHE_TTL")
	v.BindEnv("analyzer.coffeePrice", "BMAC_COFFEE_PRICE")
	v.BindEnv("logger.level", "BMAC_LOG_LEVEL")
	v.BindEnv("logger.dir", "BMAC_LOG_DIR")
}
