// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/astrohuntsman/obs-huntsman/internal/camera"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

var cameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "Manage the camera detector files (generate, list)",
	Long: `Camera builds the per-detector description files from the camera
presets and per-camera overrides. The camera directory is what the
pipeline and the header translator load detector geometry from.`,
}

// --- generate subcommand ---

var cameraGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write one detector file per camera into the camera directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cameraConfig(cmd)

		dets, err := camera.Build(cfg)
		if err != nil {
			return err
		}
		if err := camera.WriteFiles(dets, cfg.CameraDir); err != nil {
			return err
		}
		for _, d := range dets {
			fmt.Printf("wrote %s (%d, %dx%d)\n", d.Serial, d.ID, d.Width, d.Height)
		}
		fmt.Printf("\n%d detector file(s) in %s\n", len(dets), cfg.CameraDir)
		return nil
	},
}

// --- list subcommand ---

var cameraListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the detectors in the camera directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cameraConfig(cmd)

		cam, err := camera.Load(cfg.CameraDir)
		if err != nil {
			return err
		}

		fmt.Printf("%-4s  %-18s  %-9s  %-11s  %6s  %6s\n", "ID", "Serial", "Purpose", "Dimensions", "Gain", "Noise")
		fmt.Println(strings.Repeat("-", 64))
		for _, d := range cam.Detectors() {
			amp := d.Amplifiers[0]
			fmt.Printf("%-4d  %-18s  %-9s  %5dx%-5d  %6.3f  %6.2f\n",
				d.ID, d.Serial, d.Purpose, d.Width, d.Height, amp.Gain, amp.ReadNoise)
		}
		return nil
	},
}

// --- shared helpers ---

// cameraConfig builds the camera config: the config file may replace the
// presets and camera set entirely; otherwise the built-in array is used.
func cameraConfig(cmd *cobra.Command) types.CameraConfig {
	cfg := camera.DefaultConfig()

	if viper.IsSet("camera.presets") {
		var fromFile types.CameraConfig
		if err := viper.UnmarshalKey("camera", &fromFile); err == nil &&
			len(fromFile.Presets) > 0 && len(fromFile.Cameras) > 0 {
			cfg = fromFile
		} else {
			fmt.Fprintln(os.Stderr, "warning: ignoring malformed camera config, using built-in array")
		}
	}

	if dir, _ := cmd.Flags().GetString("camera-dir"); dir != "" {
		cfg.CameraDir = dir
	} else if dir := viper.GetString("camera.camera_dir"); dir != "" {
		cfg.CameraDir = dir
	}
	return cfg
}

func init() {
	cameraCmd.PersistentFlags().String("camera-dir", "", "detector file directory (default: camera)")

	cameraCmd.AddCommand(cameraGenerateCmd)
	cameraCmd.AddCommand(cameraListCmd)

	rootCmd.AddCommand(cameraCmd)
}
