// Package main is the entry point for the crudsql CLI.
package main

import (
	"github.com/asaidimu/crudsql/cmd"
)

func main() {
	cmd.Execute()
}
