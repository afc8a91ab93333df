package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumenfold/lumenfold/internal/render"
)

var texturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Write the renderer's static textures",
	Long:  "Write the glow sprite and paper grain tile used by the renderer.",
	RunE:  runTextures,
}

func init() {
	rootCmd.AddCommand(texturesCmd)

	texturesCmd.Flags().String("textures-dir", filepath.Join("assets", "textures"), "Output directory for textures")
	texturesCmd.Flags().Int("grain-size", 512, "Grain tile size in pixels (square)")
	texturesCmd.Flags().Bool("force", false, "Overwrite textures that already exist")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"textures.dir", "textures-dir"},
		{"textures.grain_size", "grain-size"},
		{"textures.force", "force"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, texturesCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runTextures(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	dir := viper.GetString("textures.dir")
	grainSize := viper.GetInt("textures.grain_size")
	force := viper.GetBool("textures.force")

	if grainSize <= 0 {
		return fmt.Errorf("grain-size must be positive")
	}

	result, err := render.WriteDefaultTextures(dir, grainSize, force)
	if err != nil {
		return err
	}

	logger.Info("Texture generation complete",
		"dir", dir,
		"written", len(result.Written),
		"skipped", len(result.Skipped),
	)
	return nil
}
