package main

import (
	"os"

	"github.com/goldirana/agentforge/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
