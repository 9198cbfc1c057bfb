// Package browser hands profile and repository links to the system's
// default web browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/ghscout/internal/config"
	"github.com/pders01/ghscout/internal/debuglog"
	"github.com/pders01/ghscout/internal/validation"
)

// StartFunc launches name with args without waiting for it to exit.
type StartFunc func(name string, args ...string) error

type Opener struct {
	command   string
	validator *validation.LinkValidator
	start     StartFunc
}

// NewOpener builds an opener for cfg.Browser.Opener. Only links on the
// configured GitHub web host are accepted.
func NewOpener(cfg *config.Config) *Opener {
	validator := validation.NewLinkValidator(validation.HostOf(cfg.API.WebURL))
	if strings.HasPrefix(cfg.API.WebURL, "http://") {
		validator.AllowHTTP = true
		validator.AllowLocalhost = true
	}

	command := strings.TrimSpace(cfg.Browser.Opener)
	if command == "" {
		command = defaultOpener()
	}

	return &Opener{
		command:   command,
		validator: validator,
		start:     startDetached,
	}
}

// WithStart replaces the launcher, used by tests.
func (o *Opener) WithStart(start StartFunc) *Opener {
	o.start = start
	return o
}

func (o *Opener) Command() string {
	return o.command
}

// Open validates link and starts the browser on it.
func (o *Opener) Open(link string) error {
	safe, err := o.validator.Validate(link)
	if err != nil {
		debuglog.Warnf("refusing to open %q: %v", link, err)
		return fmt.Errorf("invalid link: %w", err)
	}

	name, args := o.commandLine(safe)
	debuglog.Debugf("opening %s with %s", safe, name)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", o.command, err)
	}
	return nil
}

// commandLine wraps the start builtin, which only exists inside cmd.exe.
func (o *Opener) commandLine(link string) (string, []string) {
	fields := strings.Fields(o.command)
	if fields[0] == "start" {
		return "cmd", []string{"/c", "start", "", link}
	}
	return fields[0], append(fields[1:], link)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}
