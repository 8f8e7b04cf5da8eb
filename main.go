package main

import "github.com/Jobeer1/agedfix/cmd"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd.Execute(version)
}
