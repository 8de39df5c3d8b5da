package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowmotion/flowmotion/pkg/scene"
	"github.com/flowmotion/flowmotion/pkg/timeline"
)

// validateCommand creates the validate command for checking scene files.
func (c *CLI) validateCommand() *cobra.Command {
	var fps float64

	cmd := &cobra.Command{
		Use:   "validate [scene.json]",
		Short: "Validate a scene file",
		Long: `Validate a scene file against the document schema and semantic rules.

Checks run in order: JSON schema (shape, required fields, kind enums), then
cross-references (connections to known nodes and containers, placement rules,
timeline targets). The first failure is reported with its machine code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], fps)
		},
	}

	cmd.Flags().Float64Var(&fps, "fps", 0, "frame rate used for the timeline summary (default from config)")

	return cmd
}

func (c *CLI) runValidate(path string, fps float64) error {
	if fps <= 0 {
		fps = c.Config.FPS
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene file: %w", err)
	}

	prog := newProgress(c.Logger)
	if err := scene.ValidateDocument(data); err != nil {
		printError("Schema validation failed")
		return err
	}
	s, err := scene.Unmarshal(data)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		printError("Scene validation failed")
		return err
	}
	prog.done(fmt.Sprintf("Validated %s", path))

	printSuccess("Scene is valid")
	printStats(len(s.Nodes), len(s.Containers), len(s.Connections), false)
	if len(s.Timeline) > 0 {
		events := timeline.Flatten(s.Timeline, fps)
		total := timeline.TotalFrames(s.Timeline, fps)
		printDetail("Timeline: %d events, %d frames at %g fps (%.1fs)",
			len(events), total, fps, float64(total)/fps)
	} else {
		printDetail("Timeline: none (still image)")
	}
	printNextStep("Next", fmt.Sprintf("flowmotion layout %s", path))
	return nil
}
