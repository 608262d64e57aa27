package main

import (
	"os"

	"github.com/ImGajeed76/charmglob/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
