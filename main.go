package main

import (
	"os"

	"github.com/safetydesk/safetydesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
