package main

const (
	defaultBindHost = "127.0.0.1"
	defaultAPIPort  = 3000
	defaultLogDir   = "log_files"
	defaultLogLevel = "info"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	LogDir     string `mapstructure:"log-dir"`
	RulesFile  string `mapstructure:"rules-file"`
	SocketPath string `mapstructure:"socket-path"`
	APIEnabled bool   `mapstructure:"api-enabled"`
	APIPort    int    `mapstructure:"api-port"`
	APIAddr    string `mapstructure:"api-addr"`
	LogLevel   string `mapstructure:"log-level"`
	ConfigPath string `mapstructure:"-"` // not from config file
}
