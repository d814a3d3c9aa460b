package main

import (
	"os"

	"github.com/nsxbet/upgrade-checker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
