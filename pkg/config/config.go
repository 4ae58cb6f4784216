package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default values
const (
	DefaultWorkers    = 4
	DefaultNSnapshots = 500
	DefaultGridsPerR  = 256
	DefaultTSnap      = 0.01
	DefaultZMin       = -4.0
	DefaultZMax       = 4.0
	DefaultRMax       = 2.0
	DefaultFramerate  = 90
	DefaultOutputFPS  = 30
	DefaultD2VMin     = -3.0
	DefaultD2VMax     = 2.0
	DefaultTraVMin    = -3.0
	DefaultTraVMax    = 2.0

	DefaultGetFacetPath = "postProcess/getFacet"
	DefaultGetDataPath  = "postProcess/getData"

	// OutputSubdir is appended to the case directory when no explicit
	// output directory is given.
	OutputSubdir = "Video"
)

// SetDefaults sets default values for the configuration
func SetDefaults() {
	viper.SetDefault("cpus", DefaultWorkers)
	viper.SetDefault("n-snapshots", DefaultNSnapshots)
	viper.SetDefault("grids-per-r", DefaultGridsPerR)
	viper.SetDefault("tsnap", DefaultTSnap)
	viper.SetDefault("zmin", DefaultZMin)
	viper.SetDefault("zmax", DefaultZMax)
	viper.SetDefault("rmax", DefaultRMax)

	viper.SetDefault("getfacet", DefaultGetFacetPath)
	viper.SetDefault("getdata", DefaultGetDataPath)

	viper.SetDefault("skip-encode", false)
	viper.SetDefault("framerate", DefaultFramerate)
	viper.SetDefault("output-fps", DefaultOutputFPS)

	viper.SetDefault("d2-vmin", DefaultD2VMin)
	viper.SetDefault("d2-vmax", DefaultD2VMax)
	viper.SetDefault("tra-vmin", DefaultTraVMin)
	viper.SetDefault("tra-vmax", DefaultTraVMax)

	viper.SetDefault("upload-frames", false)
}

// LoadConfig loads configuration from flags, environment, and an
// optional config file.
func LoadConfig() (*RuntimeConfig, error) {
	SetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.ve-toolkit")

	viper.SetEnvPrefix("VE_TOOLKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file is optional; defaults and flags cover everything.
	}

	var config RuntimeConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(&config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	return &config, nil
}

// postProcessConfig derives dependent values and validates invariants.
func postProcessConfig(config *RuntimeConfig) error {
	if config.CaseDir == "" {
		return fmt.Errorf("case directory is required")
	}

	if config.OutputDir == "" {
		config.OutputDir = filepath.Join(config.CaseDir, OutputSubdir)
	}

	// The helpers are invoked with the case directory as working
	// directory, so their own paths must be resolved up front.
	for _, p := range []*string{&config.GetFacetPath, &config.GetDataPath} {
		if !filepath.IsAbs(*p) {
			abs, err := filepath.Abs(*p)
			if err != nil {
				return fmt.Errorf("cannot resolve helper path %s: %w", *p, err)
			}
			*p = abs
		}
	}

	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.NSnapshots <= 0 {
		return fmt.Errorf("n-snapshots must be positive, got %d", config.NSnapshots)
	}
	if config.GridsPerR <= 0 {
		return fmt.Errorf("grids-per-r must be positive, got %d", config.GridsPerR)
	}
	if config.TSnap <= 0 {
		return fmt.Errorf("tsnap must be positive, got %g", config.TSnap)
	}
	if config.RMax <= 0 {
		return fmt.Errorf("rmax must be positive, got %g", config.RMax)
	}
	if config.ZMin >= config.ZMax {
		return fmt.Errorf("zmin (%g) must be below zmax (%g)", config.ZMin, config.ZMax)
	}
	if config.D2VMin >= config.D2VMax {
		return fmt.Errorf("d2-vmin (%g) must be below d2-vmax (%g)", config.D2VMin, config.D2VMax)
	}
	if config.TraVMin >= config.TraVMax {
		return fmt.Errorf("tra-vmin (%g) must be below tra-vmax (%g)", config.TraVMin, config.TraVMax)
	}

	if config.Framerate <= 0 {
		config.Framerate = DefaultFramerate
	}
	if config.OutputFPS <= 0 {
		config.OutputFPS = DefaultOutputFPS
	}

	return nil
}

// SetupLogging configures logging based on the verbosity flag.
func SetupLogging(verbose bool) (*zap.Logger, error) {
	var config zap.Config

	if verbose {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.MessageKey = "message"

	timestamp := time.Now().Format("20060102_150405")
	logFile := fmt.Sprintf("ve_toolkit_%s.log", timestamp)

	config.OutputPaths = []string{
		"stdout",
		logFile,
	}
	config.ErrorOutputPaths = []string{
		"stderr",
		logFile,
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Logging initialized",
		zap.String("level", config.Level.String()),
		zap.String("log_file", logFile),
	)

	return logger, nil
}
