// Package run implements the run command: a shell command, with {0} and
// {1} bound to the vault path and name, is executed once per vault.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/interpolate"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/settings"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
)

// CommandName is used to label reports and logs
const CommandName = "run"

// EmptyCommandMessage is the error raised for a blank command
const EmptyCommandMessage = "Command is empty"

// Options defines the options for the run command
type Options struct {
	Vaults  []types.Vault
	Command string

	// Shell wraps the command, e.g. "sh -c". Empty uses the platform default.
	Shell string

	// RunFromVaultDirectoryAsWorkDir runs inside each vault instead of the
	// current working directory
	RunFromVaultDirectoryAsWorkDir bool

	// Timeout bounds each vault's execution. 0 means no limit.
	Timeout time.Duration

	// Silent points users to the command log instead of the report
	Silent bool

	// Log receives the output of every execution; nil disables it
	Log *logging.CommandLogger

	Batch batch.Options
}

// Record is the outcome of the command in one vault
type Record struct {
	Vault    types.Vault `json:"vault" yaml:"vault"`
	Command  string      `json:"command" yaml:"command"`
	Success  bool        `json:"success" yaml:"success"`
	Duration string      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Stdout   string      `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the outcome of a run batch
type Result struct {
	Report *batch.Report[Record]

	// BatchID tags every line this batch wrote to the command log
	BatchID string

	// LogPath is the command log file, empty when not logging to a file
	LogPath string
}

// Execute validates the command and runs it on every vault
func Execute(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.run")
	cmdLog := opts.Log
	if cmdLog == nil {
		cmdLog = logging.NewCommandLoggerTo(io.Discard)
	}

	if err := Validate(opts.Command); err != nil {
		cmdLog.Error().Str("command", opts.Command).Msg(EmptyCommandMessage)
		return nil, err
	}
	if len(opts.Vaults) == 0 {
		return nil, errors.New(errors.ErrNoVaults, "No vaults selected")
	}

	shell, err := ParseShell(opts.Shell)
	if err != nil {
		return nil, err
	}

	result := &Result{BatchID: uuid.NewString(), LogPath: cmdLog.Path()}
	opts.Log = cmdLog

	cmdLog.Debug().
		Str("batch", result.BatchID).
		Int("vaults", len(opts.Vaults)).
		Msg("Running command on selected vaults...")

	result.Report = batch.Run(ctx, CommandName, opts.Vaults, NewHandler(opts, shell, result.BatchID), opts.Batch)

	logger.Info().
		Str("command", CommandName).
		Str("custom_commands_log_path", result.LogPath).
		Msg("Run operation finished!")
	return result, nil
}

// Validate rejects a blank command before any vault is touched
func Validate(command string) error {
	if strings.TrimSpace(command) == "" {
		return errors.New(errors.ErrCommandEmpty, EmptyCommandMessage)
	}
	return nil
}

// ParseShell splits a shell setting into argv, defaulting to the platform shell
func ParseShell(shell string) ([]string, error) {
	if strings.TrimSpace(shell) == "" {
		shell = settings.DefaultShell()
	}
	argv, err := shellwords.Parse(shell)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid shell %q", shell)
	}
	if len(argv) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid shell %q", shell)
	}
	return argv, nil
}

// NewHandler returns the per-vault handler executing opts.Command via shell
func NewHandler(opts Options, shell []string, batchID string) batch.Handler[Record] {
	return func(ctx context.Context, vault types.Vault) (Record, error) {
		command := interpolate.Command(opts.Command, vault)
		logger := logging.GetLogger("commands.run").With().
			Str("vault", vault.Name).
			Str("command", command).
			Logger()
		cmdLog := opts.Log.With().
			Str("batch", batchID).
			Str("vault", vault.Path).
			Str("command", command).
			Logger()

		logger.Debug().Msg("Execute command")
		record := Record{Vault: vault, Command: command}

		dir := vault.Path
		if !opts.RunFromVaultDirectoryAsWorkDir {
			wd, err := os.Getwd()
			if err != nil {
				return failed(record, cmdLog, errors.Wrap(err, errors.ErrCommandExecute, "cannot resolve working directory"))
			}
			dir = wd
		}

		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		args := append(append([]string{}, shell[1:]...), command)
		logging.LogCommand(shell[0], args)
		cmd := exec.CommandContext(ctx, shell[0], args...)
		cmd.Dir = dir
		if opts.Timeout > 0 {
			// children of the shell may keep the output pipe open
			cmd.WaitDelay = time.Second
		}

		start := time.Now()
		out, err := cmd.CombinedOutput()
		elapsed := time.Since(start)
		output := strings.TrimSpace(string(out))

		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				err = fmt.Errorf("timed out after %s: %w", opts.Timeout, err)
			}
			execErr := errors.Wrapf(err, errors.ErrCommandExecute, "command failed in %s", vault.Name).
				WithDetail("vault", vault.Path)
			if output != "" {
				execErr.WithDetail("output", output)
				execErr.Message = execErr.Message + ": " + output
			}
			return failed(record, cmdLog, execErr)
		}

		record.Success = true
		record.Duration = batch.FormatDuration(elapsed)
		record.Stdout = output

		cmdLog.Info().Str("result", output).Str("duration", record.Duration).Msg("Executed successfully")
		if opts.Silent {
			logger.Info().Str("log", opts.Log.Path()).Msg("Run command")
		}
		return record, nil
	}
}

func failed(record Record, cmdLog zerolog.Logger, err error) (Record, error) {
	record.Success = false
	record.Error = err.Error()
	cmdLog.Error().Err(err).Msg("Execution failed")
	return record, err
}
