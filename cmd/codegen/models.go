package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models <provider>",
		Short: "List the models a provider offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := root.openPipeline(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer pipeline.Close()

			models, err := pipeline.Service.Models(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}
