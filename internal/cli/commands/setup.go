// Package commands implements the dbcascade subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/dbcascade/compiler/load"
	"github.com/syssam/dbcascade/graph"
	"github.com/syssam/dbcascade/internal/cli/config"
)

// errNoSchemas is returned when neither arguments nor the config name a
// schema file.
var errNoSchemas = errors.New("no schema files given (pass files or set schemas in dbcascade.yaml)")

// CommandContext bundles what every command needs.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Files  []string
}

// NewCommandContext resolves the schema files of a command invocation.
func NewCommandContext(cmd *cobra.Command, args []string) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	files, err := schemaFiles(args, cfg.Schemas)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Files:  files,
	}, nil
}

// Graph loads the schema files into a graph.
func (c *CommandContext) Graph(ctx context.Context) (*graph.Graph, error) {
	c.Logger.Debug("loading schemas", "files", c.Files)
	return load.Graph(ctx, c.Files...)
}

// schemaFiles returns args, or the configured patterns expanded with
// filepath.Glob. A pattern without matches is kept as is so that loading
// reports the missing file.
func schemaFiles(args, patterns []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, errNoSchemas
	}
	return files, nil
}
