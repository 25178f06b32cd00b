// Package cli implements the jobb command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/internal/logging"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags    rootFlags
	settings settings
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input.
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as an environment or storage failure.
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// ExitCode maps an error returned by the root command to a process exit code.
// Errors without a code, such as cobra usage errors, are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "jobb" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "jobb",
		Short: "Piping handleliste generator and fittings registry",
		Long: "jobb turns piping system descriptions into ordered parts lists,\n" +
			"keeps a registry of fittings, and serves both over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			s, err := resolveSettings(a.flags)
			if err != nil {
				return sysError(err)
			}
			a.settings = s
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: ./.jobb or the platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: ./.jobb-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newServeCmd(a),
		newGenerateCmd(a),
		newFittingCmd(a),
		newPDFCmd(a),
		newWatchCmd(a),
		newChatCmd(a),
	)
	return root
}

// Execute runs the root command until it finishes or the process is
// interrupted, and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return ExitCode(err)
}

// commandLogger returns a development logger when debug logging is enabled
// and a no-op logger otherwise, keeping command output clean.
func (a *app) commandLogger() *zap.Logger {
	if !a.settings.Debug {
		return zap.NewNop()
	}
	return logging.Must(true)
}
