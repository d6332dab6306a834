// nbtdump inspects NBT bearing files: level.dat and playerdata documents,
// standalone .nbt payloads, and region files.
//
//	nbtdump world/level.dat
//	nbtdump --list world/region/r.0.0.mca
//	nbtdump --chunk 5,9 world/region/r.0.0.mca
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/spf13/pflag"

	"github.com/Outspending/go-ferrumc/nbt"
	"github.com/Outspending/go-ferrumc/region"
)

const (
	exitOK     = 0
	exitUsage  = 1
	exitDecode = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		chunkFlag string
		listFlag  bool
		maxDepth  int
		loglevel  string
	)

	flagSet := pflag.NewFlagSet("nbtdump", pflag.ContinueOnError)
	flagSet.StringVar(&chunkFlag, "chunk", "", "region files: dump the chunk at position x,z")
	flagSet.BoolVar(&listFlag, "list", false, "region files: list present chunks instead of dumping")
	flagSet.IntVar(&maxDepth, "max-depth", nbt.DefaultMaxDepth, "tag nesting limit for hostile input")
	flagSet.StringVar(&loglevel, "loglevel", "NOOP", "log verbosity (DEBUG, INFO, NOOP)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUsage
	}

	args := flagSet.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: nbtdump [flags] <file>\n")
		flagSet.PrintDefaults()
		return exitUsage
	}

	logger.New(loglevel)
	log := logger.Sugar.WithServiceName("nbtdump")

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUsage
	}
	log.Debugf("read %d bytes from %s", len(data), path)

	opts := []nbt.Option{nbt.WithMaxDepth(maxDepth)}

	if _, _, err := region.ParseFileName(filepath.Base(path)); err == nil {
		return runRegion(log, data, chunkFlag, listFlag, opts)
	}
	if chunkFlag != "" || listFlag {
		fmt.Fprintf(os.Stderr, "error: --chunk and --list apply to region files only\n")
		return exitUsage
	}
	return runDocument(data, opts)
}

// runDocument dumps a single, optionally gzip wrapped, NBT document.
func runDocument(data []byte, opts []nbt.Option) int {
	plain, err := nbt.Decompress(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitDecode
	}
	name, root, err := nbt.Parse(plain, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitDecode
	}
	if name != "" {
		fmt.Printf("%s: ", name)
	}
	fmt.Println(root.SNBT())
	return exitOK
}

func runRegion(log logger.Logger, data []byte, chunkFlag string, listFlag bool, opts []nbt.Option) int {
	r, err := region.Open(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitDecode
	}

	if chunkFlag != "" {
		x, z, err := parseChunkFlag(chunkFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitUsage
		}
		_, root, err := r.Chunk(x, z, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitDecode
		}
		fmt.Println(root.SNBT())
		return exitOK
	}

	// default, and --list: enumerate what the region holds
	chunks := r.Chunks()
	log.Debugf("region holds %d chunks", len(chunks))
	for _, pos := range chunks {
		fmt.Printf("%2d,%2d  timestamp %d\n", pos.X, pos.Z, r.Timestamp(pos.X, pos.Z))
	}
	if !listFlag && len(chunks) == 0 {
		fmt.Println("empty region")
	}
	return exitOK
}

func parseChunkFlag(s string) (int, int, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("--chunk wants x,z got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("--chunk wants x,z got %q", s)
	}
	z, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("--chunk wants x,z got %q", s)
	}
	return x, z, nil
}
