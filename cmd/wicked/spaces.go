package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nsc-wicked/wicked/internal/space"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces <config.yaml>",
	Short: "Load and print an orbital-space configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := space.Load(args[0])
		if err != nil {
			logs.Err.Error("failed to load space configuration", zapErr(err))
			return err
		}
		for _, s := range reg.Spaces() {
			fmt.Printf("%-8s kind=%-10s labels=%v\n", reg.Name(s), reg.SpaceKind(s), reg.Labels(s))
		}
		fmt.Printf("max_cumulant=%d\n", reg.MaxCumulant())
		return nil
	},
}
