package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/luxfleet-io/luxfleet/cmd/luxfleet-server/app"
)

func main() {
	if err := app.NewServerCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
