package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/check"
	"github.com/syssam/dbcascade/internal/cli/config"
)

// CheckOptions holds options for the check command. The output format and
// silenced codes come from the config, where the flags of the same name
// take precedence.
type CheckOptions struct {
	Tags  []string
	Watch bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Run the cascade consistency checks on schema files",
		Long: `Load the schema files and report misconfigured delete rules.

The command exits with a non-zero status when an error or critical
diagnostic is reported. Silenced codes are still counted.`,
		Example: `  # Check the schemas listed in dbcascade.yaml
  dbcascade check

  # Check specific files and print JSON
  dbcascade check models.yaml --format json

  # Ignore a code
  dbcascade check models.yaml --silence fields.E324

  # Re-run whenever a schema file changes
  dbcascade check models.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().StringSlice("silence", nil, "Diagnostic codes to silence")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Run only checks with the given tags")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the checks when a schema file changes")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions, args []string) error {
	cmdCtx, err := NewCommandContext(cmd, args)
	if err != nil {
		return err
	}
	run := func(ctx context.Context) error {
		return checkOnce(ctx, cmd.OutOrStdout(), cmdCtx, opts.Tags)
	}
	if !opts.Watch {
		return run(cmd.Context())
	}
	return watch(cmd.Context(), cmdCtx.Logger, cmdCtx.Files, func(ctx context.Context) {
		if err := run(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}

// checkOnce loads the schemas, runs the checks registered with
// check.Default and writes the report. It returns
// dbcascade.ErrChecksFailed when a serious diagnostic was reported.
func checkOnce(ctx context.Context, w io.Writer, c *CommandContext, tags []string) error {
	g, err := c.Graph(ctx)
	if err != nil {
		return err
	}
	runTags := make([]check.Tag, len(tags))
	for i, t := range tags {
		runTags[i] = check.Tag(t)
	}
	diags, err := check.Default.Run(g, runTags...)
	if err != nil {
		return err
	}
	c.Logger.Debug("system checks finished", "models", len(g.Models()), "issues", len(diags))

	silenced := make(map[check.Code]bool, len(c.Cfg.Silence))
	for _, code := range c.Cfg.Silence {
		silenced[check.Code(code)] = true
	}
	report := Report{Issues: []check.Diagnostic{}}
	for _, d := range diags {
		if silenced[d.ID] {
			report.Silenced++
			continue
		}
		report.Issues = append(report.Issues, d)
	}
	if err := writeReport(w, c.Cfg.Format, report); err != nil {
		return err
	}
	if check.Serious(report.Issues) {
		return dbcascade.ErrChecksFailed
	}
	return nil
}

// watch calls fn once, then again after any write to one of the files.
// Events are debounced; it returns when ctx is done.
func watch(ctx context.Context, logger *slog.Logger, files []string, fn func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files, so watch the directories.
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	fn(ctx)
	changed := make(chan struct{}, 1)
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !watched[event.Name] {
				continue
			}
			logger.Debug("schema changed", "file", event.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case <-changed:
			fn(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
