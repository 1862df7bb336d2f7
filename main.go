package main

import (
	"os"

	"github.com/jalad-shrimali/cdr-analyst/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
