// Package main provides the spectra-search CLI.
//
// Usage:
//
//	spectra-search <indexfile> <embedded>... --out result.db [flags]
//
// Commands:
//
//	batch     Run multiple search jobs from a YAML file
//	inspect   Print index metadata
//	version   Version information
package main

import (
	"fmt"
	"os"

	"github.com/viant/spectra-search/cmd/spectra-search/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
