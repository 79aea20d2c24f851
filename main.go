package main

import (
	"os"

	"github.com/watthuis/spotplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
