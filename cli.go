//go:build cli
// +build cli

package main

import (
	_ "souq.GO/custom"

	"souq.GO/cmd"
	"souq.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
