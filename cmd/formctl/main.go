package main

import (
	"fmt"
	"os"

	"github.com/damoang/angple-content/internal/cli"
	"github.com/damoang/angple-content/internal/config"
)

func main() {
	config.LoadDotEnv()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
