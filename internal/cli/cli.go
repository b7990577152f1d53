// Package cli defines the translater command tree and maps command errors to
// process exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Options carries the global flag values.
type Options struct {
	ConfigPath   string
	SettingsPath string
}

// Prompt modes accepted by the prompts command.
const (
	PromptModeAll       = "all"
	PromptModeExtract   = "extract"
	PromptModeTranslate = "translate"
	PromptModeDirect    = "direct"
)

// PromptsRequest is the prompts command input. Empty language codes keep the
// stored settings.
type PromptsRequest struct {
	Mode   string
	Source string
	Target string
}

// Handlers executes commands. The command tree only parses arguments.
type Handlers interface {
	Serve(ctx context.Context, opts Options) error
	Status(ctx context.Context, opts Options) error
	SettingsShow(ctx context.Context, opts Options) error
	SettingsPath(ctx context.Context, opts Options) error
	SettingsKeys(ctx context.Context, opts Options) error
	SettingsImport(ctx context.Context, opts Options, file string) error
	SettingsSet(ctx context.Context, opts Options, assignments []string) error
	SettingsReset(ctx context.Context, opts Options) error
	Prompts(ctx context.Context, opts Options, req PromptsRequest) error
	Plan(ctx context.Context, opts Options, text bool) error
	Languages(ctx context.Context, opts Options) error
	Doctor(ctx context.Context, opts Options) error
	Version(ctx context.Context) error
}

// UsageError marks argument and flag problems.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) || strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}
	return ExitFailure
}

// NewRootCommand builds the command tree bound to h.
func NewRootCommand(h Handlers) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:           "translater",
		Short:         "Screenshot translation settings, prompts, and desktop bridge",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "runtime config file (default: $XDG_CONFIG_HOME/translater/config.yaml)")
	root.PersistentFlags().StringVar(&opts.SettingsPath, "settings", "", "settings file (default: $XDG_CONFIG_HOME/translater/settings.json)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the desktop bridge until interrupted",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.Serve(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print serving or idle",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.Status(cmd.Context(), *opts)
			},
		},
		newSettingsCommand(h, opts),
		newPromptsCommand(h, opts),
		newPlanCommand(h, opts),
		&cobra.Command{
			Use:   "languages",
			Short: "List language codes and display names",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.Languages(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "doctor",
			Short: "Run configuration and environment checks",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.Doctor(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.Version(cmd.Context())
			},
		},
	)
	return root
}

func newSettingsCommand(h Handlers, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and edit the stored settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the canonical settings as JSON",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.SettingsShow(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file path",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.SettingsPath(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List settings keys with their type and schema version",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.SettingsKeys(cmd.Context(), *opts)
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Normalize and store settings from a JSON or YAML file",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.SettingsImport(cmd.Context(), *opts, args[0])
			},
		},
		&cobra.Command{
			Use:   "set KEY=VALUE...",
			Short: "Edit settings keys",
			Args:  usageArgs(cobra.MinimumNArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.SettingsSet(cmd.Context(), *opts, args)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore default settings",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.SettingsReset(cmd.Context(), *opts)
			},
		},
	)
	return cmd
}

func newPromptsCommand(h Handlers, opts *Options) *cobra.Command {
	req := PromptsRequest{}
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Print the composed prompts for the stored settings",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch req.Mode {
			case PromptModeAll, PromptModeExtract, PromptModeTranslate, PromptModeDirect:
			default:
				return &UsageError{Err: fmt.Errorf("invalid --mode %q (want all, extract, translate, or direct)", req.Mode)}
			}
			return h.Prompts(cmd.Context(), *opts, req)
		},
	}
	cmd.Flags().StringVar(&req.Mode, "mode", PromptModeAll, "prompt to print: all, extract, translate, or direct")
	cmd.Flags().StringVar(&req.Source, "source", "", "override the source language code")
	cmd.Flags().StringVar(&req.Target, "target", "", "override the target language code")
	return cmd
}

func newPlanCommand(h Handlers, opts *Options) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the backend request plan as JSON",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h.Plan(cmd.Context(), *opts, text)
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "plan a text request instead of a screenshot")
	return cmd
}

var noArgs = usageArgs(cobra.NoArgs)

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
