package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-rawmail/internal/config"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the rawmail command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "rawmail",
		Short:         "Normalize and build email messages for delivery",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		a.rewriteCommand(),
		a.composeCommand(),
		a.removeBccCommand(),
		a.roundtripCommand(),
	)

	return rootCmd
}

// Execute runs the rawmail command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(stderr io.Writer) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFromFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}

	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: a.cfg.LogLevel(),
	}))
	return nil
}

// openInput returns the named file, or stdin when there is no name or the name
// is "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	r, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return io.ReadAll(r)
}
