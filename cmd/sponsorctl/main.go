package main

import (
	"os"

	"github.com/veldt-labs/sponsorctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
