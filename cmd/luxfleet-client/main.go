package main

import (
	"os"

	"github.com/luxfleet-io/luxfleet/cmd/luxfleet-client/app"
)

func main() {
	if err := app.NewClientCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
