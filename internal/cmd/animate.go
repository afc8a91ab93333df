package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumenfold/lumenfold/internal/render"
	"github.com/lumenfold/lumenfold/internal/timeline"
	"github.com/lumenfold/lumenfold/internal/worker"
)

var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Render an animation timeline to a frame sequence",
	Long: `Render every frame of a timeline document to numbered PNGs. Frames are
pure functions of the timeline, so they render in parallel.`,
	RunE: runAnimate,
}

func init() {
	rootCmd.AddCommand(animateCmd)

	animateCmd.Flags().StringP("timeline", "t", "", "Timeline JSON file (required)")
	animateCmd.Flags().String("frames-dir", "./frames", "Output directory for rendered frames")
	animateCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	animateCmd.Flags().Bool("progress", true, "Show progress bar")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"animate.timeline", "timeline"},
		{"animate.frames_dir", "frames-dir"},
		{"animate.workers", "workers"},
		{"animate.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, animateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runAnimate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	timelinePath := viper.GetString("animate.timeline")
	framesDir := viper.GetString("animate.frames_dir")
	workers := viper.GetInt("animate.workers")
	showProgress := viper.GetBool("animate.progress")

	if timelinePath == "" {
		return fmt.Errorf("--timeline is required")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	data, err := os.ReadFile(timelinePath)
	if err != nil {
		return fmt.Errorf("read timeline: %w", err)
	}
	var tl timeline.Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		return fmt.Errorf("parse timeline: %w", err)
	}

	job, err := render.NewAnimationJob(&tl, framesDir)
	if err != nil {
		return err
	}
	defer job.Close()

	total := job.FrameCount()
	tasks := make([]worker.Task, total)
	for i := range tasks {
		tasks[i] = worker.Task{Frame: i}
	}

	logger.Info("starting animation batch",
		"timeline", timelinePath,
		"frames", total,
		"fps", tl.Settings.FPS,
		"workers", workers,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	progress := worker.NewProgress(total, showProgress)
	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   job,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("frame render failed", "frame", r.Task.Frame, "error", r.Err)
		}
	}
	logger.Info(progress.Summary())

	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, total)
	}
	return nil
}
