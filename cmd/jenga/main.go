package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
)

func main() {
	root := newRootCmd()
	err := root.Execute()
	if err == nil {
		os.Exit(0)
	}

	fmt.Fprintln(os.Stderr, "jenga:", err)

	var je *jengaerr.Error
	if errors.As(err, &je) {
		os.Exit(je.Kind.ExitCode())
	}
	os.Exit(1)
}
