package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/syssam/dbcascade/check"
)

// Report is the machine-readable result of a check run.
type Report struct {
	Issues   []check.Diagnostic `json:"issues" yaml:"issues"`
	Silenced int                `json:"silenced" yaml:"silenced"`
}

// levels in the order the text output groups them.
var levels = []struct {
	level  check.Level
	header string
}{
	{check.Critical, "CRITICALS"},
	{check.Error, "ERRORS"},
	{check.Warning, "WARNINGS"},
	{check.Info, "INFOS"},
	{check.Debug, "DEBUGS"},
}

func writeReport(w io.Writer, format string, r Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, r)
	}
}

func writeText(w io.Writer, r Report) error {
	if len(r.Issues) == 0 {
		_, err := fmt.Fprintf(w, "System check identified no issues (%d silenced).\n", r.Silenced)
		return err
	}
	if _, err := fmt.Fprintln(w, "System check identified some issues:"); err != nil {
		return err
	}
	for _, lv := range levels {
		var group []check.Diagnostic
		for _, d := range r.Issues {
			if d.Level == lv.level {
				group = append(group, d)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", lv.header)
		for _, d := range group {
			fmt.Fprintln(w, d.String())
		}
	}
	plural := "s"
	if len(r.Issues) == 1 {
		plural = ""
	}
	_, err := fmt.Fprintf(w, "\nSystem check identified %d issue%s (%d silenced).\n", len(r.Issues), plural, r.Silenced)
	return err
}
