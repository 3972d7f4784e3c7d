package main

import (
	"fmt"
	"os"

	"github.com/htq-cli/htq"
	_ "github.com/mtibben/androiddnsfix"
)

func main() {
	if err := htq.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
