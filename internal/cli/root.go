package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/silky/ml-tools/internal/logger"
)

func Execute() {
	if err := Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Run executes gptool with args. The global logger installed for the
// command is restored on return, whether or not the command succeeded.
func Run(args []string, stdout, stderr io.Writer) error {
	var restore func()
	defer func() {
		if restore != nil {
			restore()
		}
	}()

	cmd := newRootCmd(&restore)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func newRootCmd(restore *func()) *cobra.Command {
	var debug bool
	var jsonLogs bool

	cmd := &cobra.Command{
		Use:          "gptool",
		Short:        "Gaussian-process kernels, predictions and conjugate updates",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			*restore = logger.Setup(logger.Config{
				Debug:  debug,
				JSON:   jsonLogs,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	cmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "emit logs as JSON")

	cmd.AddCommand(kernelCmd())
	cmd.AddCommand(predictCmd())
	cmd.AddCommand(conjugateCmd())
	cmd.AddCommand(regressCmd())
	return cmd
}
