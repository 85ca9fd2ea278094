package config

const (
	defaultStateDir         = "~/.local/share/pipedeck"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultStoreBackend     = StoreBackendSQLite
	defaultRedisAddr        = "127.0.0.1:6379"
	defaultKeyPrefix        = "pipedeck:"
	defaultGstLaunch        = "gst-launch-1.0"
	defaultGstInspect       = "gst-inspect-1.0"
	defaultPipeline         = "videotestsrc ! autovideosink"
	defaultTeardownTimeout  = 5
	defaultAPIBind          = "127.0.0.1:7480"
	defaultRecentTokens     = 64
	defaultSurfaceWidth     = 1920
	defaultSurfaceHeight    = 1080
	defaultLogFileName      = "pipedeck.log"
	defaultPrefsFileName    = "prefs.db"
	defaultBackupDirName    = "backups"
	defaultLogDirName       = "logs"
	defaultPlayerLockName   = "player.lock"
	defaultEnvFileName      = ".env"
	defaultConfigFileName   = "config.toml"
	defaultProjectConfig    = "pipedeck.toml"
	defaultUserConfigFolder = "~/.config/pipedeck"
)

// Default returns a Config populated with repository defaults. Paths derived
// from the state directory are filled in during Load.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Store: Store{
			Backend:   defaultStoreBackend,
			RedisAddr: defaultRedisAddr,
			KeyPrefix: defaultKeyPrefix,
		},
		Backup: Backup{
			Enabled: true,
		},
		Engine: Engine{
			GstLaunch:       defaultGstLaunch,
			GstInspect:      defaultGstInspect,
			DefaultPipeline: defaultPipeline,
			TeardownTimeout: defaultTeardownTimeout,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Import: Import{
			RecentTokens: defaultRecentTokens,
		},
		Surface: Surface{
			DefaultWidth:  defaultSurfaceWidth,
			DefaultHeight: defaultSurfaceHeight,
		},
	}
}
