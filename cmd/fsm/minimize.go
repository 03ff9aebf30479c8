package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/geange/fsm"
)

type machineInput struct {
	path   string
	kind   string
	format string
}

func (in *machineInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.path, "in", "i", "-", "Input file, - for stdin")
	cmd.Flags().StringVar(&in.kind, "kind", "mealy", "Kind of a table input (mealy or moore)")
	cmd.Flags().StringVar(&in.format, "in-format", "table", "Input format (table or yaml)")
}

func (in *machineInput) read() (fsm.Machine, error) {
	r, err := openInput(in.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	switch in.format {
	case "table", "csv":
		kind, err := fsm.ParseMachineKind(in.kind)
		if err != nil {
			return nil, err
		}
		return fsm.ReadTable(r, kind)
	case "yaml":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return fsm.UnmarshalMachine(data)
	}
	return nil, fmt.Errorf("unknown input format %q", in.format)
}

func newMinimizeCmd(s *settings) *cobra.Command {
	var (
		input  machineInput
		format string
		out    string
		prune  bool
	)

	cmd := &cobra.Command{
		Use:   "minimize",
		Short: "Minimize a Mealy or Moore machine",
		Long:  `Reads a machine, merges equivalent states and writes the result with states renamed q0, q1, ...`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := input.read()
			if err != nil {
				return err
			}
			if prune {
				m = fsm.RemoveUnreachable(m)
			}
			minimal := fsm.Minimize(m)
			s.logger.Info("minimized", "kind", m.Kind().String(), "before", m.NumStates(), "after", minimal.NumStates())

			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return writeMachine(w, minimal, format, s.cfg.Pretty)
			})
		},
	}

	input.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "Output format (markdown, table, yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&prune, "prune", false, "Drop states unreachable from the initial state first")
	return cmd
}
