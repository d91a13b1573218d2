package main

import (
	"os"

	"github.com/domainmap/domainmap/cmd/domainmap/commands"
	"github.com/domainmap/domainmap/pkg/mapexec"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		os.Exit(mapexec.ErrorCode(err))
	}
}
