package main

import "github.com/abdul-hamid-achik/declient/apps/cli/cmd"

// set at build time via -ldflags
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
