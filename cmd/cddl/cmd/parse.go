package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"

	"cddlang.org/go/cddl"
)

func newParseCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file.cddl>",
		Short: "parse a CDDL document and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(c, func(c *Command, args []string) error {
			src, err := ioutil.ReadFile(args[0])
			if err != nil {
				c.Annotations = map[string]string{"exitCode": "3"}
				return err
			}
			schema, err := cddl.Parse(args[0], src)
			if err != nil {
				c.Annotations = map[string]string{"exitCode": "1"}
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "ok: %d rule(s), root %q\n",
				len(schema.File().Rules), schema.Root().Name.Name)
			return nil
		}),
	}
	return cmd
}
