package hook

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Emit runs every hook matching e concurrently and waits for them.
// Failures are logged at debug level; the caller never sees them.
func (r *Registry) Emit(ctx context.Context, e Event) {
	hooks := r.Resolve(e.Name)
	if len(hooks) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, h := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()
			timeout := h.Timeout
			if timeout == 0 {
				timeout = DefaultTimeout
			}
			hctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := h.Handler(hctx, e); err != nil {
				slog.Debug("hook failed", "hook", h.Name, "event", e.Name, "err", err)
				return
			}
			slog.Debug("hook ran", "hook", h.Name, "event", e.Name)
		}(h)
	}
	wg.Wait()
}

// Emit sends e to the default registry.
func Emit(ctx context.Context, e Event) {
	DefaultRegistry.Emit(ctx, e)
}

// Wrap decorates a cobra RunE with debug logging of the command, its
// changed flags and how long it took.
//
//	var logCmd = &cobra.Command{RunE: hook.Wrap("workout.log", runWorkoutLog)}
func Wrap(command string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := fn(cmd, args)
		slog.Debug("command finished",
			"command", command,
			"args", len(args),
			"flags", changedFlags(cmd),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"ok", err == nil)
		return err
	}
}

func changedFlags(cmd *cobra.Command) map[string]string {
	out := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		out[f.Name] = f.Value.String()
	})
	return out
}
