package main

import (
	"fmt"
	"os"

	"github.com/pagefold/stele/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		code := cli.GetExitCode(err)
		if code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}
