package cmd

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cddlang.org/go/cddl"
	cerrors "cddlang.org/go/cddl/errors"
)

func newValidateCmd(c *Command) *cobra.Command {
	var jsonPath, cborPath string

	cmd := &cobra.Command{
		Use:   "validate --cddl <file.cddl> (--json <file.json>|--cbor <file.cbor>)",
		Short: "validate CBOR or JSON data against a CDDL schema",
		RunE: mkRunE(c, func(c *Command, args []string) error {
			cddlPath, _ := c.Flags().GetString("cddl")
			if cddlPath == "" {
				c.Annotations = map[string]string{"exitCode": "3"}
				return fmt.Errorf("--cddl is required")
			}
			if (jsonPath == "") == (cborPath == "") {
				c.Annotations = map[string]string{"exitCode": "3"}
				return fmt.Errorf("exactly one of --json or --cbor is required")
			}

			schemaSrc, err := ioutil.ReadFile(cddlPath)
			if err != nil {
				c.Annotations = map[string]string{"exitCode": "3"}
				return err
			}
			schema, err := cddl.Parse(cddlPath, schemaSrc)
			if err != nil {
				c.Annotations = map[string]string{"exitCode": "1"}
				return err
			}

			strict := flagStrict.Bool(c)
			var list cerrors.ValidationList

			if jsonPath != "" {
				src, err := readDataFile(jsonPath)
				if err != nil {
					c.Annotations = map[string]string{"exitCode": "3"}
					return err
				}
				list, err = schema.ValidateJSON(src, cddl.Strict(strict))
				if err != nil {
					c.Annotations = map[string]string{"exitCode": "3"}
					return err
				}
			} else {
				src, err := readDataFile(cborPath)
				if err != nil {
					c.Annotations = map[string]string{"exitCode": "3"}
					return err
				}
				list, err = schema.ValidateCBOR(src, cddl.Strict(strict))
				if err != nil {
					c.Annotations = map[string]string{"exitCode": "3"}
					return err
				}
			}

			if !list.OK() {
				c.Annotations = map[string]string{"exitCode": "2"}
				reportValidationErrors(c, list)
				return fmt.Errorf("validation failed")
			}
			fmt.Fprintln(c.OutOrStdout(), "valid")
			return nil
		}),
	}
	cmd.Flags().String("cddl", "", "CDDL schema file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "JSON data file, or - for stdin")
	cmd.Flags().StringVar(&cborPath, "cbor", "", "CBOR data file")
	return cmd
}

func readDataFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(path)
}

// validationErrorDoc is the YAML error-report shape (SPEC_FULL.md §6
// "--format text|yaml", gopkg.in/yaml.v3).
type validationErrorDoc struct {
	Reason       string `yaml:"reason"`
	CDDLLocation string `yaml:"cddlLocation"`
	DataLocation string `yaml:"dataLocation"`
}

func reportValidationErrors(c *Command, list cerrors.ValidationList) {
	if flagFormat.String(c) == "yaml" {
		docs := make([]validationErrorDoc, len(list))
		for i, e := range list {
			docs[i] = validationErrorDoc{
				Reason:       e.Reason,
				CDDLLocation: e.CDDLLocation,
				DataLocation: e.DataLocation,
			}
		}
		out, _ := yaml.Marshal(docs)
		fmt.Fprint(c.Stderr(), string(out))
		return
	}
	for _, e := range list {
		fmt.Fprintln(c.Stderr(), e.Error())
	}
}
