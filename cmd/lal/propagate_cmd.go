package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/propagate"
)

func newPropagateCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "propagate <name> [name ...]",
		Short: "Print the staged update plan for pushing new versions of the given components through this tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			m, err := loadManifest(pwd)
			if err != nil {
				return err
			}

			lf := &lockfile.Lockfile{Name: m.Name, Channel: m.Channel}
			lf.PopulateFromInput(m, inputDir(pwd), false)

			seq, err := propagate.Compute(lf, args)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc, err := json.MarshalIndent(seq, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(enc))
				return nil
			}

			fmt.Printf("Assuming the following components have been updated: %v\n", args)
			for i, stage := range seq.Stages {
				fmt.Printf("Stage %d:\n", i+1)
				for _, u := range stage.Updates {
					fmt.Printf("- update %v in %s\n", u.Dependencies, u.Repo)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "print the update plan as JSON")
	return cmd
}
