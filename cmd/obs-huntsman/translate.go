// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/astrohuntsman/obs-huntsman/internal/camera"
	"github.com/astrohuntsman/obs-huntsman/internal/fitshdr"
	"github.com/astrohuntsman/obs-huntsman/internal/translate"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

var translateCmd = &cobra.Command{
	Use:   "translate [raw-files...]",
	Short: "Translate raw FITS headers into standardized observation metadata",
	Long: `Translate reads the primary header of each raw FITS file and emits
the standardized observation record: visit and exposure IDs, timing,
observation type, filter, pointing, and site location. Output is YAML by
default, or JSON with --json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	tr, err := newTranslator(cmd)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	failed := 0
	for _, path := range args {
		info, err := translateFile(tr, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		if err := writeInfo(info, jsonOutput); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed translation", failed)
	}
	return nil
}

func translateFile(tr *translate.Translator, path string) (*types.ObservationInfo, error) {
	h, err := fitshdr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return tr.Translate(h)
}

func writeInfo(info *types.ObservationInfo, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(info)
}

// newTranslator wires the translator from the camera table and the config
// file's header mappings and site location.
func newTranslator(cmd *cobra.Command) (*translate.Translator, error) {
	camCfg := cameraConfig(cmd)

	cam, err := camera.Load(camCfg.CameraDir)
	if err != nil {
		cam, err = camera.FromConfig(camCfg)
		if err != nil {
			return nil, err
		}
	}

	var cfg types.TranslateConfig
	cfg.Mappings = viper.GetStringMapString("translate.mappings")
	cfg.Site = types.SiteConfig{
		LatitudeDeg:  viper.GetFloat64("translate.site.latitude_deg"),
		LongitudeDeg: viper.GetFloat64("translate.site.longitude_deg"),
		ElevationM:   viper.GetFloat64("translate.site.elevation_m"),
	}

	return translate.New(cfg, cam, types.DefaultFilters()), nil
}

func init() {
	translateCmd.Flags().Bool("json", false, "output records as JSON")
	translateCmd.Flags().String("camera-dir", "", "detector file directory (default: camera)")

	rootCmd.AddCommand(translateCmd)
}
