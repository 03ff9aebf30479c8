package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/geange/fsm"
)

func newGrammarCmd(s *settings) *cobra.Command {
	var (
		in       string
		format   string
		out      string
		minimize bool
	)

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Build a machine from a regular grammar",
		Long:  `Reads a left- or right-linear grammar with single-rune nonterminals, one production per line ("S -> aA | b"), determinizes its automaton and prints it as a Moore machine whose accepting states output F.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openInput(in)
			if err != nil {
				return err
			}
			defer r.Close()

			g, err := fsm.ReadGrammar(r)
			if err != nil {
				return err
			}
			nfa := g.NFA()
			dfa := fsm.Determinize(nfa)

			machine := dfa.ToMoore()
			if minimize {
				machine = fsm.MinimizeMoore(machine)
			}
			s.logger.Info("grammar", "kind", g.Kind.String(), "nfa", len(nfa.States), "dfa", len(dfa.States), "states", machine.NumStates())

			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return writeMachine(w, machine, format, s.cfg.Pretty)
			})
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "-", "Grammar file, - for stdin")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (markdown, table, yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&minimize, "minimize", true, "Minimize the determinized machine")
	return cmd
}
