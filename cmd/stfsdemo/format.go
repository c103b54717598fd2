package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stfs/internal/config"
	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/trail"
)

func newFormatCmd(loadCfg func() (config.Config, error)) *cobra.Command {
	var sizeBytes int64

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Create a fresh medium file and lay down the initial STFS trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			if sizeBytes <= 0 {
				sizeBytes = 512 * 1000
			}

			m, err := medium.CreateFile(cfg.MediumPath, sizeBytes)
			if err != nil {
				return fmt.Errorf("format: create medium: %w", err)
			}
			defer m.Close()

			err = trail.Format(m, sizeBytes, trail.FormatOptions{
				SpaceSize:        cfg.MetadataSpaceSize,
				AccessesPerShift: cfg.AccessesPerShift,
				Codec:            binarycodec.Codec{},
			})
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if err := m.Sync(); err != nil {
				return fmt.Errorf("format: sync medium: %w", err)
			}

			fmt.Printf("formatted %s (%d bytes, metadata_space_size=%d)\n", cfg.MediumPath, sizeBytes, cfg.MetadataSpaceSize)
			return nil
		},
	}
	cmd.Flags().Int64Var(&sizeBytes, "size", 512*1000, "medium size in bytes")
	return cmd
}
