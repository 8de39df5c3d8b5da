package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowmotion/flowmotion/pkg/pipeline"
	"github.com/flowmotion/flowmotion/pkg/scene"
)

// layoutCommand creates the layout command for resolving scene geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [scene.json]",
		Short: "Resolve scene geometry to pixel coordinates",
		Long: `Resolve scene geometry to pixel coordinates.

The layout command validates a scene and computes the absolute position of
every node, container, and routed connection on the canvas. The output is a
diagram JSON document consumed by renderers and by 'flowmotion play'.

Results are cached locally under the scene's content hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path, output string, noCache, refresh bool) error {
	s, err := scene.ReadSceneFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, s, pipeline.Options{
		FPS:     pipeline.StillFPS, // geometry only
		Refresh: refresh,
		Logger:  loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d nodes", result.Stats.NodeCount))

	if output == "" {
		output = defaultOutputPath(path, "layout.json")
	}
	data, err := json.MarshalIndent(result.Diagram, "", "  ")
	if err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	printSuccess("Layout resolved")
	printStats(result.Stats.NodeCount, result.Stats.ContainerCount, result.Stats.ConnectionCount, result.CacheInfo.LayoutHit)
	printFile(output)
	printNextStep("Next", fmt.Sprintf("flowmotion play %s", path))
	return nil
}

// defaultOutputPath swaps the extension of path for suffix.
func defaultOutputPath(path, suffix string) string {
	base := strings.TrimSuffix(path, ".json")
	return base + "." + suffix
}
