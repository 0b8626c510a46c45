package main

import (
	"os"

	"github.com/kekayan/runs-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
