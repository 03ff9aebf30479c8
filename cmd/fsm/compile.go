package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/geange/fsm"
	"github.com/geange/fsm/internal/render"
)

func newCompileCmd(s *settings) *cobra.Command {
	var (
		format string
		stages bool
		out    string
	)

	cmd := &cobra.Command{
		Use:   "compile <pattern>",
		Short: "Compile a pattern into a minimal machine",
		Long:  `Normalizes the pattern, builds its NFA, determinizes it and prints the minimized machine. Accepting states output F.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("target") {
				s.cfg.Target, _ = cmd.Flags().GetString("target")
			}
			target, err := s.target()
			if err != nil {
				return err
			}

			res, err := s.pipeline(target).Run(args[0])
			if err != nil {
				return err
			}
			s.logger.Info("compiled", "pattern", args[0], "nfa", len(res.NFA.States), "dfa", len(res.DFA.States), "states", res.Machine.NumStates())

			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				if stages {
					if err := writeStages(w, args[0], res); err != nil {
						return err
					}
				}
				return writeMachine(w, res.Machine, format, s.cfg.Pretty)
			})
		},
	}

	cmd.Flags().String("target", "moore", "Kind of the minimized machine (moore or mealy)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format (markdown, table, yaml)")
	cmd.Flags().BoolVar(&stages, "stages", false, "Also print the normalized pattern, the NFA and the DFA")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func writeStages(w io.Writer, pattern string, res *fsm.Result) error {
	fmt.Fprintf(w, "normalized: %s\n\nnfa: start %s, end %s\n", fsm.Normalize(pattern), res.NFA.Start, res.NFA.End)
	for _, e := range res.NFA.Edges {
		label := e.Label
		if label == fsm.EmptySignal {
			label = fsm.EpsilonLabel
		}
		fmt.Fprintf(w, "  %s --%s--> %s\n", e.From, label, e.To)
	}
	fmt.Fprintf(w, "\ndfa: start %s\n", res.DFA.Start)
	for _, e := range res.DFA.Edges {
		fmt.Fprintf(w, "  %s --%s--> %s\n", e.From, e.Label, e.To)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeMachine(w io.Writer, m fsm.Machine, format string, pretty bool) error {
	switch format {
	case "markdown", "md":
		return render.Write(w, render.MarkdownTable(m), pretty)
	case "table", "csv":
		return fsm.WriteTable(w, m)
	case "yaml":
		data, err := fsm.MarshalMachine(m)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
