package percept

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the pipeline's tunable settings.  The tracking thresholds
// are configuration with sensible defaults, not values derived from the
// camera or model.
type Config struct {
	// DeviceID is the capture device index passed to OpenCV
	DeviceID int
	// ReadTimeout bounds a single device read so capture never blocks
	// indefinitely
	ReadTimeout time.Duration
	// FPSWindow is the rolling window the capture throughput counter
	// is measured over
	FPSWindow time.Duration
	// PollInterval is how long the consumer stages sleep when the
	// mailbox holds no new frame
	PollInterval time.Duration
	// CanonicalSize is the square edge length in pixels of the
	// canonical image handed to the scoring capability
	CanonicalSize int
	// LabelFile is a text file with one classifier label per line
	LabelFile string
	// MatchThreshold is the maximum centroid distance in pixels for a
	// detection to be matched to an existing track
	MatchThreshold float64
	// EvictAfter is the number of consecutive unmatched cycles after
	// which a track is evicted
	EvictAfter int
	// HistorySize bounds the centroid history kept per track
	HistorySize int
	// MinSpeedInterval is the smallest interval speed is computed over,
	// shorter intervals retain the previous speed value
	MinSpeedInterval time.Duration
	// ShutdownTimeout bounds how long Stop waits for the worker loops
	// to exit
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when no config file overrides
// them
func DefaultConfig() Config {
	return Config{
		DeviceID:         0,
		ReadTimeout:      2 * time.Second,
		FPSWindow:        2 * time.Second,
		PollInterval:     5 * time.Millisecond,
		CanonicalSize:    96,
		LabelFile:        "labels.txt",
		MatchThreshold:   80,
		EvictAfter:       5,
		HistorySize:      32,
		MinSpeedInterval: 10 * time.Millisecond,
		ShutdownTimeout:  5 * time.Second,
	}
}

// LoadConfig reads settings from the given YAML file, falling back to
// DefaultConfig for any key the file does not set
func LoadConfig(file string) (Config, error) {

	def := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(file)

	v.SetDefault("camera.device", def.DeviceID)
	v.SetDefault("camera.read_timeout", def.ReadTimeout)
	v.SetDefault("camera.fps_window", def.FPSWindow)
	v.SetDefault("pipeline.poll_interval", def.PollInterval)
	v.SetDefault("pipeline.shutdown_timeout", def.ShutdownTimeout)
	v.SetDefault("classifier.canonical_size", def.CanonicalSize)
	v.SetDefault("classifier.label_file", def.LabelFile)
	v.SetDefault("tracker.match_threshold", def.MatchThreshold)
	v.SetDefault("tracker.evict_after", def.EvictAfter)
	v.SetDefault("tracker.history_size", def.HistorySize)
	v.SetDefault("tracker.min_speed_interval", def.MinSpeedInterval)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	return Config{
		DeviceID:         v.GetInt("camera.device"),
		ReadTimeout:      v.GetDuration("camera.read_timeout"),
		FPSWindow:        v.GetDuration("camera.fps_window"),
		PollInterval:     v.GetDuration("pipeline.poll_interval"),
		ShutdownTimeout:  v.GetDuration("pipeline.shutdown_timeout"),
		CanonicalSize:    v.GetInt("classifier.canonical_size"),
		LabelFile:        v.GetString("classifier.label_file"),
		MatchThreshold:   v.GetFloat64("tracker.match_threshold"),
		EvictAfter:       v.GetInt("tracker.evict_after"),
		HistorySize:      v.GetInt("tracker.history_size"),
		MinSpeedInterval: v.GetDuration("tracker.min_speed_interval"),
	}, nil
}
