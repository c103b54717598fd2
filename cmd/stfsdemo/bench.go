package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stfs/internal/config"
	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/shift"
	"stfs/internal/stfs/trail"
)

// newBenchCmd creates a fresh medium, formats it, mounts it, runs a batch
// of accesses end to end, and prints the resulting table location, cross
// checked against an independent search.
func newBenchCmd(loadCfg func() (config.Config, error)) *cobra.Command {
	var sizeBytes int64
	var accesses int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Format a fresh medium and run a batch of accesses end to end",
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
				return fmt.Errorf("bench: create medium: %w", err)
			}
			defer m.Close()

			enc := binarycodec.Codec{}
			err = trail.Format(m, sizeBytes, trail.FormatOptions{
				SpaceSize:        cfg.MetadataSpaceSize,
				AccessesPerShift: cfg.AccessesPerShift,
				Codec:            enc,
			})
			if err != nil {
				return fmt.Errorf("bench: format: %w", err)
			}

			mnt, err := shift.Open(m, cfg.MetadataSpaceSize, enc)
			if err != nil {
				return fmt.Errorf("bench: mount: %w", err)
			}

			for i := 0; i < accesses; i++ {
				if err := mnt.Access(nil); err != nil {
					return fmt.Errorf("bench: access #%d: %w", i, err)
				}
			}

			located, err := trail.Search(m, cfg.MetadataSpaceSize)
			if err != nil {
				return fmt.Errorf("bench: search: %w", err)
			}

			fmt.Printf("after %d accesses: cached_sector=%d search_sector=%d\n", accesses, mnt.TableSector(), located)
			return nil
		},
	}
	cmd.Flags().Int64Var(&sizeBytes, "size", 512*1000, "medium size in bytes")
	cmd.Flags().IntVar(&accesses, "accesses", 500*9, "number of accesses to run")
	return cmd
}
