package config

import "time"

// Config is the full configuration of an httpkit process: the outbound
// client defaults, the optional forwarding server, and logging.
type Config struct {
	App    AppConfig    `koanf:"app" json:"app" yaml:"app"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log"`
	Client ClientConfig `koanf:"client" json:"client" yaml:"client"`
	Server ServerConfig `koanf:"server" json:"server" yaml:"server"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name"`
	Version string `koanf:"version" json:"version" yaml:"version"`
	Env     string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// ClientConfig seeds every outbound request builder.
type ClientConfig struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" validate:"omitempty,url"`
	// Timeout bounds each attempt. Zero disables the timeout.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0"`
	// Retries is the number of additional attempts after the first failure.
	Retries int `koanf:"retries" json:"retries" yaml:"retries" validate:"gte=0,lte=10"`
	// RetryDelay is the fixed pause between attempts.
	RetryDelay      time.Duration `koanf:"retrydelay" json:"retrydelay" yaml:"retrydelay" validate:"gte=0"`
	VerifyTLS       bool          `koanf:"verifytls" json:"verifytls" yaml:"verifytls"`
	FollowRedirects bool          `koanf:"followredirects" json:"followredirects" yaml:"followredirects"`
	// HandleErrors turns 4xx/5xx responses into errors. When false they are returned as responses.
	HandleErrors bool `koanf:"handleerrors" json:"handleerrors" yaml:"handleerrors"`
	// RateLimit caps attempts per second across requests sharing a builder config. Zero disables it.
	RateLimit float64           `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" validate:"gte=0"`
	RateBurst int               `koanf:"rateburst" json:"rateburst" yaml:"rateburst" validate:"gte=0"`
	Token     string            `koanf:"token" json:"-" yaml:"-"`
	Headers   map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
}

// ServerConfig holds settings of the forwarding server.
type ServerConfig struct {
	Host    string        `koanf:"host" json:"host" yaml:"host"`
	Port    int           `koanf:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
	Timeout TimeoutConfig `koanf:"timeout" json:"timeout" yaml:"timeout"`
	Path    PathConfig    `koanf:"path" json:"path" yaml:"path"`
	// RateLimit caps inbound requests per second per client IP. Zero disables it.
	RateLimit int `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" validate:"gte=0"`
}

// TimeoutConfig holds timeout durations for the server.
type TimeoutConfig struct {
	Read     time.Duration `koanf:"read" json:"read" yaml:"read" validate:"gte=0"`
	Write    time.Duration `koanf:"write" json:"write" yaml:"write" validate:"gte=0"`
	Shutdown time.Duration `koanf:"shutdown" json:"shutdown" yaml:"shutdown" validate:"gte=0"`
}

// PathConfig holds URL path settings for the server.
type PathConfig struct {
	Health string `koanf:"health" json:"health" yaml:"health" validate:"startswith=/"`
	// Proxy is the prefix under which inbound requests are forwarded.
	Proxy string `koanf:"proxy" json:"proxy" yaml:"proxy" validate:"startswith=/"`
}
