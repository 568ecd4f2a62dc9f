package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mrdg/modsynth/audio"
)

// Config holds the settings that can be stored in the config file. Command
// line flags override them.
type Config struct {
	Backend    string `json:"backend,omitempty"` // portaudio, oto or wav
	SampleRate int    `json:"sampleRate,omitempty"`
	BufferSize int    `json:"bufferSize,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Voices     int    `json:"voices"` // 0 is unlimited
	MIDIFile   string `json:"midiFile,omitempty"`
	Track      int    `json:"track"`
	Channel    int    `json:"channel"` // -1 plays every channel
	MIDIPort   string `json:"midiPort,omitempty"`
	Preset     string `json:"preset,omitempty"`
	MixMode    string `json:"mixMode,omitempty"`
	LogFile    string `json:"logFile,omitempty"`
}

// DefaultConfig returns the settings used when there is no config file.
func DefaultConfig() *Config {
	return &Config{
		Backend:    "portaudio",
		SampleRate: 44100,
		BufferSize: 512,
		Channels:   2,
		Voices:     8,
		Track:      1,
		MixMode:    audio.MixLimit,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "modsynth"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config at path, or at ConfigPath when path is empty.
// Settings missing from the file keep their defaults, and a missing default
// config file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, &audio.ConfigError{Op: "read config", Err: err}
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &audio.ConfigError{Op: "parse config " + path, Err: err}
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
