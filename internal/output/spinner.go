package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner executes an action with a spinner titled title. When stdout
// is not a TTY the action runs directly, keeping piped output clean. Returns
// the action's error.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	if !IsTTY() {
		return action()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- action()
	}()

	s := spinner.New().Title(title)
	if err := s.Action(func() {
		select {
		case <-ctx.Done():
		case err := <-errCh:
			errCh <- err
		}
	}).Run(); err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
