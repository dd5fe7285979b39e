// Package main is the entry point for the rustmin CLI.
package main

import "rustmin.dev/pkg/rustmin/cmd"

func main() {
	cmd.Execute()
}
