// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrohuntsman/obs-huntsman/internal/camera"
	"github.com/astrohuntsman/obs-huntsman/internal/registry"
	"github.com/astrohuntsman/obs-huntsman/internal/translate"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "Manage the instrument registration (register)",
}

var instrumentRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Insert instrument, detector, and physical_filter records into the registry",
	Long: `Register syncs the Huntsman instrument dimensions into the local
SQLite registry: the instrument row with its ID limits, one detector row
per camera, and one row per physical filter. Registration is transactional
and idempotent.`,
	RunE: runInstrumentRegister,
}

func runInstrumentRegister(cmd *cobra.Command, args []string) error {
	cfg := cameraConfig(cmd)

	var dets []types.Detector
	cam, err := camera.Load(cfg.CameraDir)
	if err == nil {
		dets = cam.Detectors()
	} else {
		// No generated camera directory: fall back to building from config.
		dets, err = camera.Build(cfg)
		if err != nil {
			return err
		}
	}

	store, err := registry.Open(registryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.RegisterInstrument(context.Background(), "Huntsman",
		translate.MaxExposureID, dets, types.DefaultFilters())
	if err != nil {
		return err
	}

	fmt.Printf("registered Huntsman: %d detector(s), %d filter(s)\n",
		len(dets), len(types.DefaultFilters()))
	return nil
}

func init() {
	instrumentCmd.PersistentFlags().String("camera-dir", "", "detector file directory (default: camera)")
	instrumentCmd.PersistentFlags().String("registry-root", "", "registry directory (default: DATA)")

	instrumentCmd.AddCommand(instrumentRegisterCmd)

	rootCmd.AddCommand(instrumentCmd)
}
