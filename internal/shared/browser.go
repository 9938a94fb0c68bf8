package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"slices"
)

// PlayerHosts are the hosts hogar mode hands to the system browser.
var PlayerHosts = []string{"www.youtube.com", "open.spotify.com"}

var goos = runtime.GOOS

// opener returns the command that opens a URL on the current platform.
func opener(target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	}
	return nil, fmt.Errorf("%w: cannot open a browser on %s", ErrNotImplemented, goos)
}

// OpenPlayer opens an embedded player in the default browser. Only https links to [PlayerHosts]
// are accepted, since the URL comes from stored or generated content.
func OpenPlayer(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || !slices.Contains(PlayerHosts, u.Host) {
		return fmt.Errorf("%w: not a player link: %q", ErrInvalidArgument, rawURL)
	}

	cmd, err := opener(u.String())
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open player: %w", err)
	}
	go cmd.Wait()
	return nil
}
