package config

const (
	defaultDataDir        = "~/.local/share/venuebook"
	defaultAssetsDir      = "~/.local/share/venuebook/assets/venues"
	defaultLogDir         = "~/.local/share/venuebook/logs"
	defaultAdminUsername  = "admin"
	defaultAdminPassword  = "admin"
	defaultBcryptCost     = 10
	defaultBusyTimeoutMS  = 5000
	defaultOverlapPolicy  = OverlapAllow
	defaultCancelMode     = CancelDelete
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultConfigLocation = "~/.config/venuebook/config.toml"
	projectConfigName     = "venuebook.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			AssetsDir: defaultAssetsDir,
			LogDir:    defaultLogDir,
		},
		Seed: Seed{
			AdminUsername: defaultAdminUsername,
		},
		Security: Security{
			BcryptCost: defaultBcryptCost,
		},
		Store: Store{
			BusyTimeoutMS: defaultBusyTimeoutMS,
		},
		Booking: Booking{
			OverlapPolicy: defaultOverlapPolicy,
			CancelMode:    defaultCancelMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
