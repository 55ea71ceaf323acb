// Command chronicle inspects the concert dataset straight from its JSON files.
//
// Usage:
//
//	chronicle concerts --data ./data
//	chronicle setlist 2019-05-18-taipei
//	chronicle validate --strict
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
