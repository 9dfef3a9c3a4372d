package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagMotionBlur  = flag.Bool("motion-blur", false, "Enable motion blur")
	flagMotionSteps = flag.Int("motion-steps", 0, "Motion steps per mesh (odd, includes center)")
	flagDicingRate  = flag.Float64("dicing-rate", 0, "Subdivision dicing rate")
	flagMaxLevel    = flag.Int("max-level", 0, "Maximum subdivision level")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
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
	if *flagMotionBlur {
		cfg.Render.MotionBlur = true
	}
	if *flagMotionSteps > 0 {
		cfg.Render.MotionSteps = *flagMotionSteps
	}
	if *flagDicingRate > 0 {
		cfg.Subdivision.DicingRate = float32(*flagDicingRate)
	}
	if *flagMaxLevel > 0 {
		cfg.Subdivision.MaxLevel = *flagMaxLevel
	}
}
