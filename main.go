package main

import (
	"os"

	"github.com/olympiadforge/forge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
