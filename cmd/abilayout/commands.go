package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	abilayout "github.com/branched-services/go-abilayout"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Show bulk-copyable member segments of struct and tuple types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		inputs, err := resolveInputs(cmd)
		if err != nil {
			return err
		}

		reports := make([]typeReport, 0, len(inputs))
		for _, in := range inputs {
			id, err := expandInput(in)
			if err != nil {
				return err
			}
			var segments []abilayout.Segment
			if _, err := in.Tree.Members(id); err == nil {
				segments, err = abilayout.SequentiallyCopyableSegments(in.Tree, id)
				if err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}
			}
			reports = append(reports, buildReport(in.Name, in.Tree, id, segments))
		}
		return writeReports(cmd.OutOrStdout(), cfg.Output.Format, reports)
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Unroll fixed-length arrays into tuples and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		inputs, err := resolveInputs(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, in := range inputs {
			id, err := expandInput(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s => %s\n", in.Name, in.Tree.TypeString(id))
			printTree(out, in.Tree, id, 1)
		}
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate calldata-to-memory decoding functions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		inputs, err := resolveInputs(cmd)
		if err != nil {
			return err
		}

		ctx := abilayout.NewContext(cfg.Output.Unit, abilayout.WithContextLogger(abilayout.Logger()))
		gen := abilayout.NewGenerator(ctx)

		targets := make([]abilayout.Target, len(inputs))
		for i, in := range inputs {
			targets[i] = abilayout.Target{Tree: in.Tree, ID: in.ID}
		}
		names, err := gen.GenerateAll(cmd.Context(), targets)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cfg.Output.Path == "" {
			fmt.Fprint(out, ctx.DecoderUnit().Render())
			return nil
		}

		if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
			return err
		}
		for _, unit := range ctx.Units() {
			path := filepath.Join(cfg.Output.Path, unit.Name())
			if err := os.WriteFile(path, []byte(unit.Render()), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", path)
		}
		for i, name := range names {
			fmt.Fprintf(out, "%s -> %s\n", inputs[i].Name, name)
		}
		return nil
	},
}

// expandInput unrolls fixed-length arrays of composite inputs. Value and
// bytes inputs are returned as is.
func expandInput(in input) (abilayout.NodeID, error) {
	switch in.Tree.MustNode(in.ID).Kind {
	case abilayout.KindArray, abilayout.KindStruct, abilayout.KindTuple:
		id, err := abilayout.ConvertFixedLengthArraysToTuples(in.Tree, in.ID)
		if err != nil {
			return abilayout.NoNode, fmt.Errorf("%s: %w", in.Name, err)
		}
		return id, nil
	default:
		return in.ID, nil
	}
}

func printTree(w io.Writer, t *abilayout.Tree, id abilayout.NodeID, depth int) {
	for _, child := range t.Children(id) {
		n := t.MustNode(child)
		fmt.Fprintf(w, "%*s%s %s\n", depth*2, "", n.LabelOrIdentifier(), t.TypeString(child))
		printTree(w, t, child, depth+1)
	}
}
