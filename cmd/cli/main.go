// autologin - scheduled multi-account web login
//
// autologin logs in to a web site with each configured account in turn,
// keeps a dated login history and sends a Telegram summary.
package main

import (
	"os"

	"github.com/ccollicutt/autologin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
