package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type APIConfig struct {
	BaseURL  string        `yaml:"baseUrl" validate:"required|fullUrl"`
	PageSize int           `yaml:"pageSize" validate:"required|int|min:1|max:100"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Dir      string        `yaml:"dir" validate:"unixPath"`
	TTL      time.Duration `yaml:"ttl"`
	Compress bool          `yaml:"compress"`
}

type AnalyzerConfig struct {
	CoffeePrice float64 `yaml:"coffeePrice" validate:"required|min:0"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"unixPath"`
}

type ResponseCacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
	Creators []string      `yaml:"creators"`
}

type Config struct {
	AppName       string
	Debug         bool
	Path          string
	API           APIConfig           `yaml:"api"`
	Cache         CacheConfig         `yaml:"cache"`
	Analyzer      AnalyzerConfig      `yaml:"analyzer"`
	Logger        LoggerConfig        `yaml:"logger"`
	WebServer     Server              `yaml:"webServer"`
	ResponseCache ResponseCacheConfig `yaml:"responseCache"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Refresh       RefreshConfig       `yaml:"refresh"`
}
