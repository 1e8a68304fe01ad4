package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/mergerepo/internal/charm/styles"
	"github.com/speakeasy-api/mergerepo/internal/config"
	"github.com/speakeasy-api/mergerepo/internal/log"
	"github.com/speakeasy-api/mergerepo/internal/model"
	"github.com/speakeasy-api/mergerepo/internal/snapshot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var l = log.New().WithLevel(log.LevelInfo)

type outputContextKey struct{}

func init() {
	// We want our commands to be sorted in defined order, not alphabetically
	cobra.EnableCommandSorting = false
}

func addCommand(cmd *cobra.Command, command model.Command) error {
	c, err := command.Init()
	if err != nil {
		return err
	}
	cmd.AddCommand(c)
	return nil
}

func CmdForTest(version, artifactArch string) (*cobra.Command, error) {
	return setupRootCmd(version, artifactArch)
}

func Execute(version, artifactArch string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd, err := setupRootCmd(version, artifactArch)
	if err == nil {
		err = rootCmd.ExecuteContext(ctx)
	}
	stop()

	if err == nil {
		return
	}

	errLogger := l
	var ioErr *snapshot.IOFailure
	if errors.As(err, &ioErr) {
		errLogger = errLogger.WithAssociatedFile(ioErr.Path)
	}
	errLogger.Error("", zap.Error(err))
	if rootCmd != nil {
		printUsageHint(rootCmd, err)
	}

	if code := ExitCode(err); code != 0 {
		os.Exit(code)
	}
}

// ExitCode maps a command error to the process exit status. Usage errors exit
// cleanly once the usage text has been printed; nothing has run.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usageErr *snapshot.UsageError
	if errors.As(err, &usageErr) {
		return 0
	}
	return 1
}

func printUsageHint(rootCmd *cobra.Command, err error) {
	var usageErr *snapshot.UsageError
	if !errors.As(err, &usageErr) {
		l.WithInteractiveOnly().PrintfStyled(styles.DimmedItalic, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
		return
	}

	c, _, findErr := rootCmd.Find(os.Args[1:])
	if findErr != nil {
		c = rootCmd
	}
	l.PrintlnUnstyled(c.UsageString())
}

func setupRootCmd(version, artifactArch string) (*cobra.Command, error) {
	if err := config.Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	rootCmd, err := mergeCmd().Init()
	if err != nil {
		return nil, err
	}

	rootCmd.Version = version + "\n" + artifactArch
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().String("logLevel", string(log.LevelInfo), fmt.Sprintf("the log level (available options: [%s])", strings.Join(log.Levels, ", ")))
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &snapshot.UsageError{Msg: err.Error()}
	})
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(cmd); err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), outputContextKey{}, cmd.OutOrStdout()))
		return nil
	}

	if err := addCommand(rootCmd, diffCmd()); err != nil {
		return nil, err
	}

	return rootCmd, nil
}

func setLogLevel(cmd *cobra.Command) error {
	logLevel, err := cmd.Flags().GetString("logLevel")
	if err != nil {
		return err
	}
	if !slices.Contains(log.Levels, logLevel) {
		return &snapshot.UsageError{Msg: fmt.Sprintf("log level must be one of: %s", strings.Join(log.Levels, ", "))}
	}

	l = l.WithLevel(log.Level(logLevel))
	ctx := log.With(cmd.Context(), l)
	cmd.SetContext(ctx)

	return nil
}

// exactRoots accepts exactly one positional argument per name.
func exactRoots(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return &snapshot.UsageError{Msg: fmt.Sprintf("expected %d arguments (%s), got %d", len(names), strings.Join(names, ", "), len(args))}
		}
		return nil
	}
}

// printReport writes the report to the command's standard output, keeping
// progress and diagnostics on stderr.
func printReport(ctx context.Context, report snapshot.Report, format string) error {
	out, ok := ctx.Value(outputContextKey{}).(io.Writer)
	if !ok {
		out = os.Stdout
	}

	ctx = log.With(ctx, log.From(ctx).WithWriter(out))
	return errors.Wrap(log.PrintValue(ctx, report, format), "failed to print report")
}
