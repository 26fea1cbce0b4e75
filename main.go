package main

import (
	"os"

	"github.com/loadpulse/loadpulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
