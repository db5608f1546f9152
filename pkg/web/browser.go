package web

import (
	"os/exec"
	"runtime"

	"github.com/pterm/pterm"
)

// openBrowser tries to open the default browser with the given URL
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		return
	}

	if err := cmd.Start(); err != nil {
		pterm.DefaultLogger.Debug("browser not opened", pterm.DefaultLogger.Args("url", url, "error", err))
	}
}
