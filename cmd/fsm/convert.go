package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/geange/fsm"
)

func newConvertCmd(s *settings) *cobra.Command {
	var (
		input  machineInput
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between Mealy and Moore machines",
		Long:  `Converts a Mealy machine to Moore form or a Moore machine to Mealy form. A Mealy state entered with different outputs cannot be converted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := input.read()
			if err != nil {
				return err
			}

			var converted fsm.Machine
			switch t := m.(type) {
			case *fsm.Mealy:
				moore, err := fsm.MealyToMoore(t)
				if err != nil {
					return err
				}
				converted = moore
			case *fsm.Moore:
				converted = fsm.MooreToMealy(t)
			default:
				return fmt.Errorf("unknown machine type %T", m)
			}
			s.logger.Info("converted", "from", m.Kind().String(), "to", converted.Kind().String())

			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return writeMachine(w, converted, format, s.cfg.Pretty)
			})
		},
	}

	input.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "Output format (markdown, table, yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}
