package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/kekayan/runs-cli/internal/ports"
)

// Opener launches the platform browser. Fire and forget.
type Opener struct{}

var _ ports.BrowserOpener = Opener{}

func (Opener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}

	// The process is deliberately not waited on.
	go func() { _ = cmd.Wait() }()

	return nil
}
