package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowmotion/flowmotion/pkg/pipeline"
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// evalCommand creates the eval command for computing animation state.
func (c *CLI) evalCommand() *cobra.Command {
	var (
		frame   int
		fps     float64
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "eval [scene.json]",
		Short: "Evaluate animation state at one frame",
		Long: `Evaluate animation state at one frame.

The eval command runs the full pipeline and prints the per-element state at
the queried frame: brightness, draw progress, and opacity for every node,
container, and connection, plus the step indicator and global dim level.

An fps of 1 or lower selects still-image mode: the frame state is null and
every element renders fully visible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(cmd.Context(), args[0], frame, fps, output, noCache, refresh)
		},
	}

	cmd.Flags().IntVar(&frame, "frame", 0, "frame index to evaluate")
	cmd.Flags().Float64Var(&fps, "fps", 0, "frame rate (default from config, 1 for still mode)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runEval(ctx context.Context, path string, frame int, fps float64, output string, noCache, refresh bool) error {
	if fps == 0 {
		fps = c.Config.FPS
	}

	s, err := scene.ReadSceneFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, s, pipeline.Options{
		Frame:   frame,
		FPS:     fps,
		Refresh: refresh,
		Logger:  loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if output == "" {
		fmt.Println(string(data))
	} else {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		printFile(output)
	}

	if result.Frame == nil {
		printInfo("Still mode: frame state is null, render everything fully visible")
	} else {
		printDetail("Frame %d/%d at %g fps", frame, result.TotalFrames, fps)
	}
	return nil
}
