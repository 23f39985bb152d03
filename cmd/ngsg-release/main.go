package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cameron-jack/ngsg-release/internal/cli"
	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		clierrors.PrintError(cliErr)
	} else if !cli.IsExitError(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	os.Exit(cli.ExitCode(err))
}
