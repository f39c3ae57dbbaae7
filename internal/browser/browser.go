// Package browser opens post links in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// launch starts the opener; tests replace it.
var launch = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Validate accepts only absolute http and https URLs.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("refusing to open URL without host")
	}
	return nil
}

func Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	switch runtime.GOOS {
	case "darwin":
		return launch("open", rawURL)
	case "windows":
		// rundll32 avoids cmd /c start shell interpretation
		return launch("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return launch("xdg-open", rawURL)
	}
}
