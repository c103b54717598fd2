package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stfs/internal/config"
)

func newInitConfigCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default JSON config file to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(out); err != nil {
				return fmt.Errorf("init-config: %w", err)
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "./stfs.json", "path to write the config file")
	return cmd
}
