// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command mdqueue-bench drives load against an [mdqueue.MDList] and
// optionally serves its Prometheus metrics. The library itself has no
// persisted state or CLI surface; this binary is purely a driver around it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "mdqueue-bench",
		Short: "Drive load against an mdqueue.MDList",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newRunCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
