package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecHandler runs the executable at path with the event JSON on stdin.
// Output is discarded unless the script fails, in which case its stderr is
// folded into the error.
func ExecHandler(path string) Handler {
	return func(ctx context.Context, e Event) error {
		input, err := e.JSON()
		if err != nil {
			return fmt.Errorf("serializing event: %w", err)
		}
		cmd := exec.CommandContext(ctx, path)
		cmd.Stdin = bytes.NewReader(input)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timed out")
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("%w: %s", err, msg)
			}
			return err
		}
		return nil
	}
}
