package main

import (
	"os"

	"github.com/sporadisk/weekclock/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
