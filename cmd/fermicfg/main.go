package main

import (
	"os"

	"github.com/dshills/fermicfg/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
