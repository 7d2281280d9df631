package filesystem

import (
	"fmt"
	"os"
)

// WithWorkingDir runs fn with the process working directory set to dir and
// restores the previous working directory afterwards, including when fn
// fails or panics.
func WithWorkingDir(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not determine working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("could not enter %s: %w", dir, err)
	}
	defer func() {
		if rerr := os.Chdir(prev); rerr != nil && err == nil {
			err = fmt.Errorf("could not restore working directory %s: %w", prev, rerr)
		}
	}()
	return fn()
}
