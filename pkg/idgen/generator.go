// Package idgen turns a process-local counter into short fixed-width
// identifiers for correlating requests and log lines.
package idgen

import "context"

// Source hands out string identifiers. *Generator implements it; services
// depend on Source so tests can substitute a fixed sequence.
type Source interface {
	Generate(ctx context.Context) (string, error)
}
