package main

import (
	"os"

	"github.com/MrJamesThe3rd/homeledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
