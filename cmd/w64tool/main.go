// Command w64tool is a small offline inspector for an STFS medium file: it
// dumps the raw trail footers and the decoded table without going through
// a running mount, which is useful when the trail itself might be corrupt
// (exactly the case shift.Open's locator is not guaranteed to handle).
package main

import (
	"flag"
	"fmt"
	"os"

	"stfs/internal/stfs/codec"
	"stfs/internal/stfs/codec/binarycodec"
	"stfs/internal/stfs/medium"
	"stfs/internal/stfs/trail"
	"stfs/internal/version"
)

func main() {
	var spaceSize uint
	var showVersion bool
	flag.UintVar(&spaceSize, "metadata-space-size", 10, "number of sectors reserved for the trail+table region")
	flag.BoolVar(&showVersion, "version", false, "Print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Get().String())
		return
	}

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := args[0]
	path := args[1]

	m, err := medium.OpenFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer m.Close()

	switch cmd {
	case "footers":
		cmdFooters(m, uint32(spaceSize))
	case "table":
		cmdTable(m, uint32(spaceSize))
	case "search":
		cmdSearch(m, uint32(spaceSize))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: w64tool [-metadata-space-size N] <footers|table|search> <medium-path>")
}

func cmdFooters(m *medium.File, spaceSize uint32) {
	for i := uint32(0); i < spaceSize; i++ {
		step, err := trail.ReadFooter(m, i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sector %d: %v\n", i, err)
			os.Exit(1)
		}
		fmt.Printf("sector %2d: trail=%s\n", i, step)
	}
}

func cmdSearch(m *medium.File, spaceSize uint32) {
	sector, err := trail.Search(m, spaceSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(sector)
}

func cmdTable(m *medium.File, spaceSize uint32) {
	sector, err := trail.Search(m, spaceSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		os.Exit(1)
	}
	t, err := codec.ReadTable(m, sector, binarycodec.Codec{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "read table at sector %d: %v\n", sector, err)
		os.Exit(1)
	}
	fmt.Printf("sector=%d accesses_left=%d accesses_per_shift=%d table_size=%d magic=0x%x files_data_len=%d\n",
		sector, t.AccessesLeft, t.AccessesPerShift, t.TableSize, t.Magic, len(t.FilesData))
}
