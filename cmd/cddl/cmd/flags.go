package cmd

import "github.com/spf13/pflag"

// Global flags, adapted from the teacher's flagName/addGlobalFlags pattern
// (cmd/cue/cmd/flags.go) down to the handful this CLI actually needs.
const (
	flagStrict flagName = "strict"
	flagFormat flagName = "format"
)

func addGlobalFlags(f *pflag.FlagSet) {
	f.Bool(string(flagStrict), true, "reject map values with keys not named by the schema")
	f.String(string(flagFormat), "text", "error report format: text or yaml")
}

type flagName string

func (f flagName) Bool(cmd *Command) bool {
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	v, _ := cmd.Flags().GetString(string(f))
	return v
}
