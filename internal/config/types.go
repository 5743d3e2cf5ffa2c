package config

// Config is the optional file-based configuration (JSON or YAML).
//
// Credentials never live here; they come from the environment (see env.go).
// Every field has a default (see Default), so running without a config file
// is the normal case.
type Config struct {
	ReviewAPI ReviewAPIConfig `json:"review_api"`
	Poll      PollConfig      `json:"poll"`
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
}

// ReviewAPIConfig controls the homework status endpoint.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type ReviewAPIConfig struct {
	Endpoint string `json:"endpoint,omitempty"`
	// Timeout bounds a single poll request. Default: "30s".
	Timeout string `json:"timeout,omitempty"`
	// FromDate overrides the initial from_date (unix seconds).
	// If omitted, the process start time is used.
	FromDate *int64 `json:"from_date,omitempty"`
	// StaticFromDate keeps from_date fixed instead of advancing it to the
	// server-reported current_date after each successful poll.
	StaticFromDate bool `json:"static_from_date,omitempty"`
}

// PollConfig controls how often the review API is polled.
//
// Interval accepts a Go duration ("600s", "10m"), HH:MM ("00:10"),
// or a cron expression ("*/10 * * * *", "@every 10m").
type PollConfig struct {
	Interval string `json:"interval,omitempty"`
}

type TelegramConfig struct {
	// RatePerSec caps outgoing messages. Default: 1.
	RatePerSec     int  `json:"rate_per_sec,omitempty"`
	DisablePreview bool `json:"disable_preview,omitempty"`
	// SendTimeout bounds a single delivery attempt. Default: "15s".
	SendTimeout string `json:"send_timeout,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollInterval = "600s"
)

// Default returns the configuration used when no file is given.
// File values are decoded on top of it, so omitted keys keep these values.
func Default() *Config {
	return &Config{
		ReviewAPI: ReviewAPIConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  "30s",
		},
		Poll: PollConfig{Interval: DefaultPollInterval},
		Telegram: TelegramConfig{
			RatePerSec:  1,
			SendTimeout: "15s",
		},
		Logging: LoggingConfig{
			Level:   "debug",
			Console: true,
		},
	}
}
