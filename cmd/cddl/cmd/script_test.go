package cmd_test

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"cddlang.org/go/cmd/cddl/cmd"
)

// TestMain lets the test binary re-exec itself as the cddl command, the
// same indirection cmd/cue/cmd/script_test.go uses for testscript-driven
// CLI tests, minus the module-proxy setup: this CLI has no subcommands
// that fetch modules, so goproxytest/gotooltest have nothing to serve.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"cddl": cmd.Main,
	}))
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
