package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumenfold/lumenfold/internal/export"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/render"
	"github.com/lumenfold/lumenfold/internal/rng"
	"github.com/lumenfold/lumenfold/internal/scene"
	"github.com/lumenfold/lumenfold/internal/seed"
	"github.com/lumenfold/lumenfold/internal/share"
	"github.com/lumenfold/lumenfold/internal/text"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a portrait still",
	Long: `Render a single portrait to a PNG. The portrait state comes either from
a share query string (--share) or from a seed plus defaults.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("seed", "s", "", "Seed phrase or comma-separated tag triple")
	renderCmd.Flags().String("name", "", "Portrait name")
	renderCmd.Flags().String("share", "", "Share query string carrying the full state (overrides --seed)")
	renderCmd.Flags().String("still", "", "Still-config JSON file to import (legacy configs are migrated)")
	renderCmd.Flags().StringP("out", "o", "portrait.png", "Output PNG path")
	renderCmd.Flags().Int("width", 1080, "Output width in pixels")
	renderCmd.Flags().Int("height", 1080, "Output height in pixels")
	renderCmd.Flags().String("bundle", "", "Also write a visual-export ZIP to this path")
	renderCmd.Flags().String("intent", "", "Intent line stored in the export metadata")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"render.seed", "seed"},
		{"render.name", "name"},
		{"render.share", "share"},
		{"render.still", "still"},
		{"render.out", "out"},
		{"render.width", "width"},
		{"render.height", "height"},
		{"render.bundle", "bundle"},
		{"render.intent", "intent"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, renderCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	shareQuery := viper.GetString("render.share")
	outPath := viper.GetString("render.out")
	width := viper.GetInt("render.width")
	height := viper.GetInt("render.height")
	bundlePath := viper.GetString("render.bundle")
	intent := viper.GetString("render.intent")

	if width <= 0 || height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}

	var st share.State
	if stillPath := viper.GetString("render.still"); stillPath != "" {
		data, err := os.ReadFile(stillPath)
		if err != nil {
			return fmt.Errorf("read still config: %w", err)
		}
		cfg, err := share.ImportStill(data)
		if err != nil {
			return err
		}
		st = share.State{
			Name:     cfg.Name,
			Seed:     viper.GetString("render.seed"),
			Controls: cfg.Controls(),
		}
		if intent == "" {
			intent = cfg.Intent
		}
	} else if shareQuery != "" {
		decoded, err := share.Decode(shareQuery)
		if err != nil {
			return err
		}
		st = decoded
	} else {
		st = share.State{
			Name:     viper.GetString("render.name"),
			Seed:     viper.GetString("render.seed"),
			Controls: params.DefaultControls(),
		}
	}
	if st.Seed == "" {
		return fmt.Errorf("a seed is required (--seed or --share)")
	}

	parsed, err := seed.Parse(st.Seed, "en")
	if err != nil {
		return err
	}

	sc, err := scene.Build(parsed.Label, st.Controls)
	if err != nil {
		return err
	}

	rd := render.NewRenderer(width, height)
	defer rd.Close()
	img := rd.Render(sc, render.DefaultFrameState())

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode output: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	title := text.GenerateTitle(sc.Controls, rng.MustFromLabel(parsed.Label+":title"))
	logger.Info("portrait rendered",
		"seed", parsed.Label,
		"title", title,
		"nodes", sc.NodeCount,
		"path", outPath,
	)

	if bundlePath == "" {
		return nil
	}

	alt := text.GenerateAltText(sc.Controls, sc.NodeCount, title)
	bf, err := os.Create(bundlePath)
	if err != nil {
		return fmt.Errorf("create bundle file: %w", err)
	}
	defer bf.Close()

	err = export.WriteBundle(bf, export.Bundle{
		Image:   img,
		Title:   title,
		AltText: alt,
		Config:  share.ExportStill(st.Name, intent, sc.Controls),
	})
	if err != nil {
		return err
	}

	logger.Info("export bundle written", "path", bundlePath)
	return nil
}
