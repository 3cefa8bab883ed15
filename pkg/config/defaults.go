package config

import "time"

// DefaultDialTimeout bounds the dials of the copy and sync commands. The
// daemon's outbound notifications use syncmanager.DefaultDialTimeout.
const DefaultDialTimeout = 30 * time.Second

// DefaultShutdownGrace bounds how long the endpoint waits for in-flight
// sessions to finish once shutting down.
const DefaultShutdownGrace = 10 * time.Second

// DefaultWatcherQueueCapacity is the default watcher queue size setting,
// equal to the watcher's fixed watcher.QueueCapacity.
const DefaultWatcherQueueCapacity = 100

// DefaultConfig returns the configuration used when no config file is
// present: loopback-free listening on all interfaces, info-level text
// logging to stdout, and the timing defaults the concurrency model
// specifies.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Listen: ListenConfig{
			Addrs: []string{"/ip4/0.0.0.0/tcp/0"},
		},
		Watcher: WatcherConfig{
			QueueCapacity: DefaultWatcherQueueCapacity,
		},
		Session: SessionConfig{
			DialTimeout:   DefaultDialTimeout,
			ShutdownGrace: DefaultShutdownGrace,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9090",
		},
	}
}
