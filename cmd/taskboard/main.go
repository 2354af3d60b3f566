package main

import (
	"fmt"
	"os"

	"taskboard/cli"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func Execute() error {
	return cli.NewRootCommand().Execute()
}
