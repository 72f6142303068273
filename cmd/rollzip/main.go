// cmd/rollzip/main.go
package main

import (
	"os"

	"github.com/semmidev/rollzip/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
