package config

const (
	defaultItemHeight   = 1
	defaultOverscan     = 3
	defaultSmoothScroll = true
	defaultRole         = "listbox"
	defaultBorder       = "round"
	defaultStoreBackend = "file"
	defaultFileStore    = "~/.local/state/vscroll/positions.toml"
	defaultSQLiteStore  = "~/.local/state/vscroll/positions.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultConfigPath   = "~/.config/vscroll/config.toml"
	projectConfigName   = "vscroll.toml"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		List: List{
			ItemHeight:   defaultItemHeight,
			Overscan:     defaultOverscan,
			SmoothScroll: defaultSmoothScroll,
			Role:         defaultRole,
			Border:       defaultBorder,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
