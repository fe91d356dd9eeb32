package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnwolfe/grind/internal/config"
)

// Script is a hook executable found on disk.
type Script struct {
	Path    string
	Pattern string
	Name    string
}

// Dir returns the user hooks directory.
func Dir() string {
	return filepath.Join(config.GetPaths().ConfigDir, "hooks")
}

// Discover lists executable scripts in dir whose names follow
// <event-pattern>.<ext>. Other files are skipped. A missing dir is empty.
func Discover(dir string) ([]Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading hooks dir: %w", err)
	}
	var out []Script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		pattern, err := parseScriptName(e.Name())
		if err != nil {
			continue
		}
		p := filepath.Join(dir, e.Name())
		info, err := os.Stat(p)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		out = append(out, Script{Path: p, Pattern: pattern, Name: e.Name()})
	}
	return out, nil
}

// parseScriptName strips the extension and checks the remaining pattern
// names at least one event:
//
//	workout.logged.sh   → workout.logged
//	achievement.*.py    → achievement.*
//	*.sh                → *
func parseScriptName(name string) (string, error) {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return "", fmt.Errorf("hook %q needs a file extension", name)
	}
	pattern := strings.TrimSuffix(name, ext)
	if !knownPattern(pattern) {
		return "", fmt.Errorf("hook %q matches no event", name)
	}
	return pattern, nil
}

// RegisterScripts discovers scripts in dir and registers them on reg.
func RegisterScripts(reg *Registry, dir string) (int, error) {
	scripts, err := Discover(dir)
	if err != nil {
		return 0, err
	}
	for _, s := range scripts {
		reg.Register(Hook{
			Pattern: s.Pattern,
			Name:    s.Name,
			Source:  "user",
			Handler: ExecHandler(s.Path),
		})
	}
	return len(scripts), nil
}

// CreateScript writes a starter script for pattern into dir.
func CreateScript(dir, pattern string) (string, error) {
	if strings.ContainsAny(pattern, `/\`) || strings.Contains(pattern, "..") {
		return "", fmt.Errorf("pattern %q must not contain path separators", pattern)
	}
	if !knownPattern(pattern) {
		return "", fmt.Errorf("pattern %q matches no event (known: %s)", pattern, strings.Join(Events, ", "))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks dir: %w", err)
	}
	p := filepath.Join(dir, pattern+".sh")
	if _, err := os.Stat(p); err == nil {
		return "", fmt.Errorf("hook already exists: %s", p)
	}
	script := fmt.Sprintf(`#!/bin/sh
# grind hook for %s
#
# The event arrives as JSON on stdin:
#   {"event":"workout.logged","user_id":"...","time":"...","data":{...}}
# Anything printed to stderr is shown when the hook fails.

EVENT=$(cat)
# echo "$EVENT" >> "$HOME/grind-events.log"
`, pattern)
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("writing hook script: %w", err)
	}
	return p, nil
}

// RunScript fires a sample event of the script's pattern at path.
func RunScript(ctx context.Context, path string) (Event, error) {
	pattern, err := parseScriptName(filepath.Base(path))
	if err != nil {
		return Event{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Event{}, fmt.Errorf("hook not found: %s", path)
	}
	if info.Mode()&0o111 == 0 {
		return Event{}, fmt.Errorf("hook not executable: %s (run: chmod +x %s)", path, path)
	}
	name := pattern
	for _, e := range Events {
		if matchPattern(pattern, e) {
			name = e
			break
		}
	}
	ev := NewEvent(name, "sample-user", map[string]any{"sample": true})
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return ev, ExecHandler(path)(ctx, ev)
}
