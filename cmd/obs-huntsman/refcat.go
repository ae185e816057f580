// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/astrohuntsman/obs-huntsman/internal/fetch"
	"github.com/astrohuntsman/obs-huntsman/internal/refcat"
	"github.com/astrohuntsman/obs-huntsman/internal/registry"
	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

var refcatCmd = &cobra.Command{
	Use:   "refcat",
	Short: "Manage reference catalogues (ingest, link, verify, list, search)",
	Long: `Refcat converts astrometric reference catalogues into the sharded
on-disk layout the pipeline loads at calibration time, records them in the
registry, and maintains the DATA/ref_cats symlink convention.`,
}

// --- ingest subcommand ---

var refcatIngestCmd = &cobra.Command{
	Use:   "ingest [name] [raw-catalogue]",
	Short: "Convert a raw reference catalogue into the sharded layout",
	Long: `Ingest reads a raw catalogue (CSV with id, ra, dec, and magnitude
columns), shards it spatially, writes the shard files and metadata under
the output directory, and records the catalogue in the registry.
Re-ingesting an unchanged raw file is a no-op.`,
	Args: cobra.ExactArgs(2),
	RunE: runRefcatIngest,
}

func runRefcatIngest(cmd *cobra.Command, args []string) error {
	name, rawPath := args[0], args[1]
	cfg := refcatConfig(cmd)

	result, err := refcat.Ingest(cfg, name, rawPath, os.Stdout)
	if err != nil {
		return err
	}

	noRegister, _ := cmd.Flags().GetBool("no-register")
	if !noRegister {
		store, err := registry.Open(registryConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.RegisterRefcat(context.Background(), result.Meta, result.Dir); err != nil {
			return err
		}
		fmt.Printf("registered %s in registry\n", name)
	}

	if result.BadRows > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d bad row(s) skipped\n", result.BadRows)
	}
	return nil
}

// --- fetch subcommand ---

var refcatFetchCmd = &cobra.Command{
	Use:   "fetch [url] [dest]",
	Short: "Download a raw catalogue file",
	Long: `Fetch downloads a raw catalogue over HTTP into a local file, retrying
transient failures. The file is written atomically; an interrupted download
leaves nothing behind.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, dest := args[0], args[1]
		n, err := fetch.Download(cmd.Context(), nil, url, dest)
		if err != nil {
			return err
		}
		fmt.Printf("fetched %s (%d bytes)\n", dest, n)
		return nil
	},
}

// --- link subcommand ---

var refcatLinkCmd = &cobra.Command{
	Use:   "link [name]",
	Short: "Symlink a catalogue into the repository DATA/ref_cats layout",
	Long: `Link creates <repo>/DATA/ref_cats/<name> as a symlink to the
catalogue under the test-data tree
(<testdata>/ref_cats/<source>/ref_cats/<name>), then checks that the link
resolves. Existing non-symlink paths are never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefcatLink,
}

func runRefcatLink(cmd *cobra.Command, args []string) error {
	name := args[0]
	repoRoot, _ := cmd.Flags().GetString("repo")
	testdata, _ := cmd.Flags().GetString("testdata")
	source, _ := cmd.Flags().GetString("source")

	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		target = refcat.TargetPath(testdata, source, name)
	}

	link, err := refcat.Link(repoRoot, target, name)
	if err != nil {
		return err
	}
	if err := refcat.VerifyLink(link); err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", link, target)
	return nil
}

// --- verify subcommand ---

var refcatVerifyCmd = &cobra.Command{
	Use:   "verify [name-or-dir]",
	Short: "Check the structural integrity of an ingested catalogue",
	Long: `Verify resolves the catalogue (by repository link name or directly
by directory), then checks that the metadata parses, every shard file
exists and decodes, and source counts match.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefcatVerify,
}

func runRefcatVerify(cmd *cobra.Command, args []string) error {
	dir, err := resolveCatalogDir(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := refcat.Verify(dir, os.Stdout)
	if err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("%d problem(s) found", len(result.Problems))
	}
	return nil
}

// --- list subcommand ---

var refcatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalogues recorded in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := registry.Open(registryConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		cats, err := store.ListRefcats(context.Background())
		if err != nil {
			return err
		}
		if len(cats) == 0 {
			fmt.Println("No catalogues registered.")
			return nil
		}

		fmt.Printf("%-36s  %5s  %9s  %-20s  %s\n", "Name", "Depth", "Sources", "Ingested", "Path")
		fmt.Println(strings.Repeat("-", 100))
		for _, c := range cats {
			fmt.Printf("%-36s  %5d  %9d  %-20s  %s\n",
				c.Name, c.Depth, c.NSources, c.IngestedAt.Format("2006-01-02 15:04:05"), c.Path)
		}
		return nil
	},
}

// --- search subcommand ---

var refcatSearchCmd = &cobra.Command{
	Use:   "search [name-or-dir]",
	Short: "Cone-search an ingested catalogue",
	Long: `Search loads a catalogue and returns the sources within the given
radius of a sky position, nearest first. Coordinates accept decimal
degrees.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefcatSearch,
}

func runRefcatSearch(cmd *cobra.Command, args []string) error {
	dir, err := resolveCatalogDir(cmd, args[0])
	if err != nil {
		return err
	}

	ra, _ := cmd.Flags().GetFloat64("ra")
	dec, _ := cmd.Flags().GetFloat64("dec")
	radius, _ := cmd.Flags().GetFloat64("radius")

	cat, err := refcat.Open(dir)
	if err != nil {
		return err
	}
	sources, err := cat.ConeSearch(ra, dec, radius)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Println("No sources found.")
		return nil
	}

	for _, s := range sources {
		fmt.Printf("%-20s  %v  %v", s.ID,
			sexa.FmtRA(unit.RAFromDeg(s.RADeg)),
			sexa.FmtAngle(unit.AngleFromDeg(s.DecDeg)))
		for _, band := range cat.Meta().Bands {
			if mag, ok := s.Mags[band]; ok {
				fmt.Printf("  %s=%.2f", band, mag)
			}
		}
		fmt.Println()
	}
	fmt.Printf("\n%d sources\n", len(sources))
	return nil
}

// --- shared helpers ---

// refcatConfig builds the ingestion config from flags with viper fallbacks.
func refcatConfig(cmd *cobra.Command) types.RefcatConfig {
	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = viper.GetString("refcat.out_dir")
	}
	if outDir == "" {
		outDir = "DATA"
	}
	depth, _ := cmd.Flags().GetInt("depth")
	if depth == 0 {
		depth = viper.GetInt("refcat.depth")
	}
	bands, _ := cmd.Flags().GetStringSlice("bands")
	if len(bands) == 0 {
		bands = viper.GetStringSlice("refcat.bands")
	}
	return types.RefcatConfig{Depth: depth, OutDir: outDir, Bands: bands}
}

// registryConfig builds the registry config from flags with viper fallbacks.
func registryConfig(cmd *cobra.Command) types.RegistryConfig {
	root, _ := cmd.Flags().GetString("registry-root")
	if root == "" {
		root = viper.GetString("registry.root")
	}
	if root == "" {
		root = "DATA"
	}
	return types.RegistryConfig{Root: root}
}

// resolveCatalogDir accepts either a catalogue directory or a link name
// under the repository DATA/ref_cats layout.
func resolveCatalogDir(cmd *cobra.Command, arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return arg, nil
	}
	repoRoot, _ := cmd.Flags().GetString("repo")
	link := refcat.LinkPath(repoRoot, arg)
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", fmt.Errorf("catalogue %q: not a directory and %s does not resolve: %w", arg, link, err)
	}
	return resolved, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	refcatCmd.PersistentFlags().String("repo", ".", "repository root (contains DATA/ref_cats/)")
	refcatCmd.PersistentFlags().String("registry-root", "", "registry directory (default: DATA)")

	// Ingest flags.
	refcatIngestCmd.Flags().String("out-dir", "", "output base directory (default: DATA)")
	refcatIngestCmd.Flags().Int("depth", 0, "shard index depth (0 = default 4)")
	refcatIngestCmd.Flags().StringSlice("bands", nil, "magnitude bands to keep (default: all columns)")
	refcatIngestCmd.Flags().Bool("no-register", false, "skip recording the catalogue in the registry")

	// Link flags.
	refcatLinkCmd.Flags().String("testdata", "testdata", "test-data tree root")
	refcatLinkCmd.Flags().String("source", "huntsman", "test-data source name")
	refcatLinkCmd.Flags().String("target", "", "explicit link target (overrides --testdata/--source)")

	// Search flags.
	refcatSearchCmd.Flags().Float64("ra", 0, "cone center right ascension (degrees)")
	refcatSearchCmd.Flags().Float64("dec", 0, "cone center declination (degrees)")
	refcatSearchCmd.Flags().Float64("radius", 1, "cone radius (degrees)")

	// Wire subcommands.
	refcatCmd.AddCommand(refcatIngestCmd)
	refcatCmd.AddCommand(refcatFetchCmd)
	refcatCmd.AddCommand(refcatLinkCmd)
	refcatCmd.AddCommand(refcatVerifyCmd)
	refcatCmd.AddCommand(refcatListCmd)
	refcatCmd.AddCommand(refcatSearchCmd)

	rootCmd.AddCommand(refcatCmd)
}
