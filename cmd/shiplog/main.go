package main

import (
	"os"

	"github.com/shiplog/shiplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
