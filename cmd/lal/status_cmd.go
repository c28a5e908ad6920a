package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/resolve"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report which manifest dependencies are missing, present, or extraneous in INPUT",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			m, err := loadManifest(pwd)
			if err != nil {
				return err
			}

			st := resolve.AnalyzeStatus(m, inputDir(pwd))
			for _, d := range st.Dependencies {
				tag := "dependency"
				if d.Development {
					tag = "dev-dependency"
				}
				switch {
				case d.Missing:
					fmt.Printf("MISSING  %-24s %s\n", d.Name, tag)
				case d.Mismatch:
					fmt.Printf("MISMATCH %-24s %s wants %d, INPUT has %s\n", d.Name, tag, d.Version, d.ActualVersion)
				default:
					fmt.Printf("OK       %-24s %s=%d\n", d.Name, tag, d.Version)
				}
			}
			for _, name := range st.Extraneous {
				fmt.Printf("EXTRA    %-24s not declared in manifest\n", name)
			}
			return nil
		},
	}
	return cmd
}
