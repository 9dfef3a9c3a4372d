// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Render      RenderConfig      `yaml:"render"`
	Subdivision SubdivisionConfig `yaml:"subdivision"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// RenderConfig holds scene-level rendering settings.
type RenderConfig struct {
	MotionBlur  bool `yaml:"motion_blur"`
	MotionSteps int  `yaml:"motion_steps"` // Must be odd, center step included
}

// SubdivisionConfig holds subdivision surface settings applied to
// meshes that request adaptive subdivision.
type SubdivisionConfig struct {
	DicingRate float32 `yaml:"dicing_rate"`
	MaxLevel   int     `yaml:"max_level"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			MotionBlur:  false,
			MotionSteps: 3,
		},
		Subdivision: SubdivisionConfig{
			DicingRate: 1.0,
			MaxLevel:   12,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
