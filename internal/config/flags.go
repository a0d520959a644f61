package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagPolicy   = flag.String("policy", "", "Main shape policy")
	flagIndent   = flag.Int("indent", -1, "JSON indent in spaces (0 = compact)")
	flagAssetDir = flag.String("assets", "", "Extra asset directory")
	flagLogFile  = flag.String("log", "", "Log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPolicy != "" {
		cfg.Codec.MainShapePolicy = *flagPolicy
	}
	if *flagIndent >= 0 {
		cfg.Codec.Indent = *flagIndent
	}
	if *flagAssetDir != "" {
		cfg.Assets.Dirs = append(cfg.Assets.Dirs, *flagAssetDir)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
