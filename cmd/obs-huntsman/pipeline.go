package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/astrohuntsman/obs-huntsman/internal/taskconfig"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Render the observatory overrides for the processing tasks",
}

var pipelineConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective per-task configuration",
	Long: `Config renders the task settings the pipeline should run with:
the Huntsman defaults with the overrides file (if any) merged on top.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, _ := cmd.Flags().GetString("overrides")
		if overrides == "" {
			overrides = viper.GetString("pipeline.overrides")
		}

		cfg, err := taskconfig.Load(overrides)
		if err != nil {
			return err
		}

		task, _ := cmd.Flags().GetString("task")
		switch task {
		case "":
			return cfg.Render(os.Stdout)
		case "isr":
			return renderSection(cfg.ISR)
		case "characterize":
			return renderSection(cfg.Characterize)
		case "calibrate":
			return renderSection(cfg.Calibrate)
		case "skymap":
			return renderSection(cfg.SkyMap)
		default:
			return fmt.Errorf("unknown task %q: use isr, characterize, calibrate, or skymap", task)
		}
	},
}

func renderSection(section any) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(section)
}

func init() {
	pipelineConfigCmd.Flags().String("overrides", "", "task overrides YAML file")
	pipelineConfigCmd.Flags().String("task", "", "render a single task section")

	pipelineCmd.AddCommand(pipelineConfigCmd)

	rootCmd.AddCommand(pipelineCmd)
}
