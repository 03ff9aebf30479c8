package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/geange/fsm"
)

func newGraphCmd(s *settings) *cobra.Command {
	var (
		stage  string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "graph <pattern>",
		Short: "Export a pipeline stage as a diagram",
		Long:  `Compiles the pattern and prints the NFA, the DFA or the minimized machine as Graphviz DOT or a Mermaid flowchart.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := s.target()
			if err != nil {
				return err
			}
			res, err := s.pipeline(target).Run(args[0])
			if err != nil {
				return err
			}

			var g *fsm.Graph
			switch stage {
			case "nfa":
				g = res.NFA.Graph()
			case "dfa":
				g = res.DFA.Graph()
			case "machine":
				g = fsm.MachineGraph(res.Machine, fsm.WithAcceptingOutput(fsm.AcceptOutput))
			default:
				return fmt.Errorf("unknown stage %q", stage)
			}

			var text string
			switch format {
			case "dot":
				text = g.DOT(stage)
			case "mermaid":
				text = g.Mermaid()
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				_, err := io.WriteString(w, text)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "machine", "Stage to draw (nfa, dfa, machine)")
	cmd.Flags().StringVar(&format, "format", "dot", "Diagram format (dot or mermaid)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}
