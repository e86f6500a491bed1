package config

import (
	"time"
)

type Config struct {
	Interface   string
	Wordlist    string
	ResultsFile string
	Verbose     int

	Capture CaptureConfig
	Deauth  DeauthConfig
}

type CaptureConfig struct {
	Timeout       time.Duration
	PollInterval  time.Duration
	PollTimeout   time.Duration
	StopGrace     time.Duration
	EnableTimeout time.Duration
	Inspector     string
}

type DeauthConfig struct {
	Count    int
	Interval time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ResultsFile: "./shakedown-results.json",
		Verbose:     1,
		Capture: CaptureConfig{
			Timeout:       5 * time.Minute,
			PollInterval:  5 * time.Second,
			PollTimeout:   10 * time.Second,
			StopGrace:     5 * time.Second,
			EnableTimeout: 10 * time.Second,
			Inspector:     "aircrack",
		},
		Deauth: DeauthConfig{
			Count:    5,
			Interval: 15 * time.Second,
		},
	}
}
