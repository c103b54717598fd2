package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stfs/internal/config"
	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/filemeta"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/shift"
)

func newStatCmd(loadCfg func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Locate the table and print its current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}

			m, err := medium.OpenFile(cfg.MediumPath)
			if err != nil {
				return fmt.Errorf("stat: open medium: %w", err)
			}
			defer m.Close()

			mnt, err := shift.Open(m, cfg.MetadataSpaceSize, binarycodec.Codec{})
			if err != nil {
				return fmt.Errorf("stat: mount: %w", err)
			}

			table, err := mnt.Peek()
			if err != nil {
				return fmt.Errorf("stat: %w", err)
			}
			entries, err := filemeta.DecodeEntries(table.FilesData)
			if err != nil {
				return fmt.Errorf("stat: decode files_data: %w", err)
			}

			fmt.Printf("table_sector=%d accesses_left=%d accesses_per_shift=%d table_size=%d files=%d\n",
				mnt.TableSector(), table.AccessesLeft, table.AccessesPerShift, table.TableSize, len(entries))
			return nil
		},
	}
	return cmd
}
