// Package main provides voicecmp, an offline companion to the analysis server.
//
// Usage:
//
//	voicecmp [flags] <command> [args]
//
// Commands:
//
//	compare  - score a candidate recording against a reference
//	features - print the acoustic fingerprint of a recording
//	sniff    - report the container format of a recording
//
// Configuration is read from the environment (and .env) exactly as the
// server reads it.
package main

import (
	"fmt"
	"os"

	"voiceanalysis/cmd/voicecmp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
