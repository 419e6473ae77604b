package main

import (
	"os"

	"github.com/abhisek/glucoguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
