package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stfs/internal/config"
	"stfs/internal/stfs/codec"
	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/filemeta"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/shift"
)

func newAccessCmd(loadCfg func() (config.Config, error)) *cobra.Command {
	var count int
	var track []string

	cmd := &cobra.Command{
		Use:   "access",
		Short: "Mount an existing medium and run N accesses against the table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}

			m, err := medium.OpenFile(cfg.MediumPath)
			if err != nil {
				return fmt.Errorf("access: open medium: %w", err)
			}
			defer m.Close()

			mnt, err := shift.Open(m, cfg.MetadataSpaceSize, binarycodec.Codec{})
			if err != nil {
				return fmt.Errorf("access: mount: %w", err)
			}

			var mutate func(*codec.ShiftingTable) error
			if len(track) > 0 {
				entries, err := statEntries(track)
				if err != nil {
					return fmt.Errorf("access: stat tracked files: %w", err)
				}
				encoded, err := filemeta.EncodeEntries(entries, cfg.CompressFilesData)
				if err != nil {
					return fmt.Errorf("access: encode files_data: %w", err)
				}
				mutate = func(table *codec.ShiftingTable) error {
					table.FilesData = encoded
					return nil
				}
			}

			for i := 0; i < count; i++ {
				if err := mnt.Access(mutate); err != nil {
					return fmt.Errorf("access: access #%d: %w", i, err)
				}
			}

			if err := m.Sync(); err != nil {
				return fmt.Errorf("access: sync medium: %w", err)
			}

			fmt.Printf("ran %d accesses, table now at sector %d\n", count, mnt.TableSector())
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of accesses to run")
	cmd.Flags().StringSliceVar(&track, "track", nil, "paths to stat and pack into the table's files_data on every access")
	return cmd
}

// statEntries builds a filemeta.Entry for each path in paths from its real
// os.Stat metadata, so the encoded files_data reflects actual files on disk
// rather than synthetic test fixtures.
func statEntries(paths []string) ([]filemeta.Entry, error) {
	entries := make([]filemeta.Entry, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, filemeta.Entry{
			Start:    0,
			Len:      uint64(info.Size()),
			Flags:    0,
			Modified: info.ModTime(),
			Accessed: info.ModTime(),
			Created:  info.ModTime(),
			Path:     p,
		})
	}
	return entries, nil
}
