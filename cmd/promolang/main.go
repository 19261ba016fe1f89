package main

import (
	"os"

	"github.com/promolang/promolang/cmd/promolang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
