package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppDirName is the directory name used under the per-user config path.
	AppDirName = "screenrec"
	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.json"
)

// Config holds the recording configuration. It is loaded once at startup,
// mutated only through explicit user action, and rewritten wholesale on save.
type Config struct {
	Framerate      int    `json:"framerate"`       // Frames per second, positive
	Preset         string `json:"preset"`          // Encoder speed/quality preset
	CRF            int    `json:"crf"`             // Constant-rate-quality factor
	PixelFormat    string `json:"pixel_format"`    // Output pixel format
	VideoCodec     string `json:"video_codec"`     // Video codec name
	AudioCodec     string `json:"audio_codec"`     // Audio codec name
	AudioBitrate   string `json:"audio_bitrate"`   // e.g. "192k"
	RecordMic      bool   `json:"record_mic"`      // Record the microphone
	RecordLoopback bool   `json:"record_loopback"` // Record system audio
	MicDevice      string `json:"mic_device"`      // Configured mic name, empty = default
	LoopbackDevice string `json:"loopback_device"` // Configured loopback name, empty = detect
	OutputDir      string `json:"output_dir"`      // Where recordings and screenshots go
	FfmpegPath     string `json:"ffmpeg_path"`     // Encoder path override, empty = locate
	Port           int    `json:"port"`            // Local listing server port

	// Display and VideoSize are the capture-source parameters of the X11
	// backend. Empty values are resolved once at startup (DISPLAY env,
	// xrandr probe) so that command synthesis stays a pure function.
	Display   string `json:"display"`
	VideoSize string `json:"video_size"`
}

// Default returns the configuration used when no file exists or a key is
// missing. The "high quality" constants (CRF 18, 192k audio) are canonical.
func Default() Config {
	return Config{
		Framerate:      30,
		Preset:         "medium",
		CRF:            18,
		PixelFormat:    "yuv420p",
		VideoCodec:     "libx264",
		AudioCodec:     "aac",
		AudioBitrate:   "192k",
		RecordMic:      true,
		RecordLoopback: true,
		OutputDir:      DefaultOutputDir(),
		Port:           8091,
	}
}

// Dir returns the per-user configuration directory for the application.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "." + AppDirName
		}
		return filepath.Join(home, "."+AppDirName)
	}
	return filepath.Join(base, AppDirName)
}

// Path returns the full path of the configuration file.
func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// DefaultOutputDir returns the default directory for recordings.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ScreenRecordings"
	}
	return filepath.Join(home, "Videos", "ScreenRecordings")
}

// LogDir returns the per-user log directory.
func LogDir() string {
	return filepath.Join(Dir(), "logs")
}

// Load reads the configuration from the per-user config path, falling back
// to defaults for a missing file or missing keys. Unknown keys are ignored.
func Load() (*Config, error) {
	cfg, err := LoadFrom(Path())
	if err != nil {
		return nil, err
	}

	if path := os.Getenv("FFMPEG_PATH"); path != "" {
		cfg.FfmpegPath = path
	}
	return cfg, nil
}

// LoadFrom reads the configuration from an explicit path. Missing keys keep
// their default values because the file is decoded over a pre-filled struct.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Framerate must be positive; a hand-edited zero would otherwise only
	// surface as an opaque encoder failure at session start.
	if cfg.Framerate <= 0 {
		cfg.Framerate = Default().Framerate
	}
	return &cfg, nil
}

// Save rewrites the configuration file wholesale at the per-user config path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo rewrites the configuration file wholesale at an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EncoderName returns the platform-appropriate executable name of the
// external encoder.
func EncoderName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}
