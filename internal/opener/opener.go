package opener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// System opens URLs by running an external command and waiting for it.
type System struct {
	// Command replaces the platform default, e.g. "firefox" or
	// "open -a Safari". The URL is appended as the last argument.
	Command string

	goos string
}

// New returns a System opener. An empty command selects the platform default.
func New(command string) *System {
	return &System{Command: strings.TrimSpace(command), goos: runtime.GOOS}
}

// Open runs the opener for url and reports whether it exited cleanly.
func (s *System) Open(ctx context.Context, url string) error {
	name, args, err := commandFor(s.goos, s.Command, url)
	if err != nil {
		return err
	}

	bin, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("opener %q not available: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return fmt.Errorf("%s exited with code %d", name, exitErr.ExitCode())
			}
			return fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), msg)
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

// commandFor returns the program and arguments that open url on goos.
func commandFor(goos, override, url string) (string, []string, error) {
	if override != "" {
		fields := strings.Fields(override)
		return fields[0], append(fields[1:], url), nil
	}

	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("no default opener for %s; set exec.opener", goos)
	}
}
