// Command countdown runs a countdown timer from the terminal.
//
// Usage:
//
//	countdown run [value] [flags]
//	countdown interactive [flags]
//
// Settings are read from an optional YAML file (--config) and overridden by
// flags.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
