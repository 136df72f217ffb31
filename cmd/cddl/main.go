// Command cddl parses RFC 8610 CDDL schemas and validates CBOR or JSON data
// against them. See cmd/cddl/cmd for subcommands.
package main

import (
	"os"

	"cddlang.org/go/cmd/cddl/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
