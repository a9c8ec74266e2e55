package check

import (
	"log/slog"

	"github.com/syssam/dbcascade"
)

// Option configures a Checker.
type Option func(*Checker) error

// WithLogger sets the logger used for debug output.
// Defaults to slog.Default at call time.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) error {
		if l == nil {
			return dbcascade.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// WithSilenced drops diagnostics with the given codes from the results.
func WithSilenced(codes ...Code) Option {
	return func(c *Checker) error {
		for _, code := range codes {
			if code == "" {
				return dbcascade.NewConfigError("Silenced", code, "code cannot be empty")
			}
			c.silenced[code] = true
		}
		return nil
	}
}

// WithRules replaces the rule set. Rules run in the given order.
func WithRules(rs ...Rule) Option {
	return func(c *Checker) error {
		for _, r := range rs {
			if r.ID == "" {
				return dbcascade.NewConfigError("Rules", nil, "rule without code")
			}
			if r.Violated == nil {
				return dbcascade.NewConfigError("Rules", r.ID, "rule without predicate")
			}
		}
		c.rules = rs
		return nil
	}
}
