package launcher

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/tryteddy/teddyadmin/model"
)

// BuildLoginURL returns the front-end URL that logs the admin in as the
// given customer. The URL template and parameter names are a contract with
// the front end and must not change.
func BuildLoginURL(front string, c model.Company, password string) string {
	if !strings.HasSuffix(front, "/") {
		front += "/"
	}
	params := url.Values{
		"email":    {c.Email},
		"password": {password},
	}
	return front + "login?" + params.Encode()
}

// OpenURL opens u in the default browser.
func OpenURL(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	// detach: the browser outlives the console
	go cmd.Wait()
	return nil
}
