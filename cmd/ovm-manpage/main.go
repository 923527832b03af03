package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/ovm/cmd/ovm"
	"github.com/spf13/cobra/doc"
)

func main() {
	rootCmd := ovm.NewRootCmd()

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, ovm.ManHeader(), os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, ovm.ManHeader(), os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
