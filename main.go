package main

import (
	"context"
	"os"

	"github.com/secmon-lab/panoptes/pkg/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Run(context.Background(), os.Args, version))
}
