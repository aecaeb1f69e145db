package main

import (
	"os"

	"github.com/agentic-docs/docintel/cmd/docintel"
)

func main() {
	if err := docintel.Execute(); err != nil {
		os.Exit(1)
	}
}
