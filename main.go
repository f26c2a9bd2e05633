// Package main is the entry point for the copydeps CLI.
package main

import "copydeps.dev/pkg/copydeps/cmd"

func main() {
	cmd.Execute()
}
