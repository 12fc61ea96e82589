// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import "github.com/BurntSushi/toml"

// Config is the on-disk shape loaded via --config. The library itself stays
// configuration-file-agnostic; only this binary knows about TOML.
type Config struct {
	Dimension      int    `toml:"dimension"`
	Range          uint64 `toml:"range"`
	PurgeEvery     uint64 `toml:"purge_every"`
	Producers      int    `toml:"producers"`
	Consumers      int    `toml:"consumers"`
	OpsPerProducer int    `toml:"ops_per_producer"`
	MetricsAddr    string `toml:"metrics_addr"`
}

func defaultConfig() Config {
	return Config{
		Dimension:      4,
		Range:          1 << 24,
		PurgeEvery:     4096,
		Producers:      4,
		Consumers:      4,
		OpsPerProducer: 100_000,
		MetricsAddr:    ":9090",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
