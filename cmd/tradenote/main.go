package main

import (
	"os"

	"github.com/ldyuan/tradenote/cmd/tradenote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
