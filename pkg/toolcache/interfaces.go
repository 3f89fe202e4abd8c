//go:generate mockgen -destination=./mocks/toolcache.go . Runner

package toolcache

import "context"

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
