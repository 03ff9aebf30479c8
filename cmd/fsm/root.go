package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/geange/fsm"
	"github.com/geange/fsm/internal/config"
	"github.com/geange/fsm/internal/logging"
)

// settings are resolved once per invocation from the config file and the
// persistent flags.
type settings struct {
	cfg    config.Config
	logger *slog.Logger
}

func (s *settings) regExpOptions() []fsm.RegExpOption {
	options := []fsm.RegExpOption{fsm.WithMaxDepth(s.cfg.MaxDepth)}
	if s.cfg.CaseFolding {
		options = append(options, fsm.WithCaseFolding())
	}
	return options
}

func (s *settings) pipeline(target fsm.MachineKind) *fsm.Pipeline {
	return fsm.NewPipeline(
		fsm.WithTarget(target),
		fsm.WithLogger(s.logger),
		fsm.WithRegExpOptions(s.regExpOptions()...),
		fsm.WithMaxPatternLength(s.cfg.MaxPatternLength),
	)
}

func (s *settings) target() (fsm.MachineKind, error) {
	return fsm.ParseMachineKind(s.cfg.Target)
}

func newRootCmd() *cobra.Command {
	s := &settings{cfg: config.Default(), logger: logging.NewNop()}

	cmd := &cobra.Command{
		Use:          "fsm",
		Short:        "Compile regular expressions into minimal finite state machines",
		Long:         `fsm turns a regular expression into an NFA, determinizes it, and minimizes the result as a Mealy or Moore machine. It also minimizes and converts machines given as transition tables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Pretty, _ = cmd.Flags().GetBool("pretty")
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			s.cfg = cfg
			s.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("pretty", false, "Style markdown output when writing to a terminal")

	cmd.AddCommand(
		newCompileCmd(s),
		newMinimizeCmd(s),
		newConvertCmd(s),
		newGraphCmd(s),
		newGrammarCmd(s),
		newServeCmd(s),
	)
	return cmd
}

// openInput returns stdin for "" or "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// withOutput runs fn against the named file, or against fallback for "" or "-".
// The file is removed again if fn or closing it fails.
func withOutput(path string, fallback io.Writer, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = fn(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
