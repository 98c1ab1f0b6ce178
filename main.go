package main

import (
	"log"
	"os"

	"github.com/qadesk/qadesk/cli"
)

// Version information, set via -ldflags on release builds
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	c := cli.New()
	c.SetVersion(version, commit, date)
	if err := c.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
