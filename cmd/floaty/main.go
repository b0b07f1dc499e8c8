// Package main provides the floaty CLI.
package main

import "github.com/mesh-intelligence/floaty/internal/cli"

func main() {
	cli.Execute()
}
