// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package main is the entry point for the obs-huntsman CLI: observatory
// support tooling for the Huntsman array. The CLI ingests reference
// catalogues, maintains the repository symlink layout, generates camera
// files, registers the instrument, and translates raw headers.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the obs-huntsman CLI.
var rootCmd = &cobra.Command{
	Use:   "obs-huntsman",
	Short: "Observatory support tooling for the Huntsman telescope array",
	Long: `obs-huntsman prepares Huntsman data for the host processing pipeline.
It converts astrometric reference catalogues into the sharded layout the
pipeline loads at calibration time, maintains the DATA/ref_cats symlink
convention, generates per-camera detector files, registers the instrument
dimensions in the local registry, and translates raw FITS headers into
standardized observation metadata.

Each concern is a subcommand: refcat, camera, instrument, translate, and
pipeline.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./obs-huntsman.yaml or ~/.config/obs-huntsman/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("obs-huntsman")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "obs-huntsman"))
		}
	}

	viper.SetEnvPrefix("OBS_HUNTSMAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
