package logger

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Options captures the shared logging flags every command registers.
type Options struct {
	Level     string
	JSON      bool
	AddSource bool
}

// OptionsFromCommand reads the log-level, log-json and log-source flags off
// cmd. Callers may overwrite Level afterwards, for example to fold quiet and
// debug switches into it.
func OptionsFromCommand(cmd *cobra.Command) (Options, error) {
	var opts Options
	var err error
	if opts.Level, err = cmd.Flags().GetString("log-level"); err != nil {
		return Options{}, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if opts.JSON, err = cmd.Flags().GetBool("log-json"); err != nil {
		return Options{}, fmt.Errorf("failed to get log-json flag: %w", err)
	}
	if opts.AddSource, err = cmd.Flags().GetBool("log-source"); err != nil {
		return Options{}, fmt.Errorf("failed to get log-source flag: %w", err)
	}
	return opts, nil
}

// Install replaces the process-wide default logger with one built from the
// options.
func (o Options) Install() {
	Init(&Config{
		Level:      ParseLevel(o.Level),
		Output:     DefaultConfig().Output,
		JSON:       o.JSON,
		AddSource:  o.AddSource,
		TimeFormat: "15:04:05",
	})
}
