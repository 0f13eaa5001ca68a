// Resizes the images embedded in TFRecord shard files across a fixed-size group of
// worker processes.
//
// Each worker is one process, identified by a zero-based rank within the group. All
// workers expand the same input glob over a shared filesystem and each takes every
// size-th shard of the sorted listing, so the group covers every shard exactly once
// with no runtime coordination. Rank and group size are taken from -rank and -size,
// or, when unset, from the OpenMPI environment so that the binary can be launched
// directly under mpirun.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sensorable/tfresize"
)

var (
	inputGlob   string  // The glob pattern for the input shard files.
	outputDir   string  // The output directory; one output shard per input shard.
	rank        int     // This worker's zero-based rank.
	size        int     // The total number of workers in the group.
	scaleFactor float64 // The factor applied to both image dimensions.
	jpegQuality int     // The quality for re-encoded JPEGs.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  run one process per rank, e.g.:"+
				" mpirun -n 4 tfresize -input '/data/train-*' -output /data/resized")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	flag.StringVar(&inputGlob, "input", "",
		"The glob `pattern` matching the input shard files")
	flag.StringVar(&outputDir, "output", "",
		"The `path` to the output directory")
	flag.IntVar(&rank, "rank", -1,
		"This worker's zero-based `rank` (default $OMPI_COMM_WORLD_RANK)")
	flag.IntVar(&size, "size", -1,
		"The total `number` of workers in the group (default $OMPI_COMM_WORLD_SIZE)")
	flag.Float64Var(&scaleFactor, "scale-factor", tfresize.DefaultScaleFactor,
		"The `factor` to scale both image dimensions by")
	flag.IntVar(&jpegQuality, "jpeg-quality", tfresize.DefaultJPEGQuality,
		"The quality to use when encoding JPEGs [1, 100]")
	flag.Parse()

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	if inputGlob == "" || outputDir == "" {
		printUsageAndExit("Missing input pattern or output directory argument")
	}
	if scaleFactor <= 0 {
		printUsageAndExit("Invalid scale factor: ", scaleFactor)
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = tfresize.DefaultJPEGQuality
		log.Print("Invalid JPEG quality, setting it to ", jpegQuality)
	}

	// Fall back to the OpenMPI process identity when the flags are unset.
	var err error
	if rank < 0 {
		if rank, err = intFromEnv("OMPI_COMM_WORLD_RANK"); err != nil {
			printUsageAndExit("Missing worker rank: ", err)
		}
	}
	if size < 0 {
		if size, err = intFromEnv("OMPI_COMM_WORLD_SIZE"); err != nil {
			printUsageAndExit("Missing worker group size: ", err)
		}
	}

	outputDir = filepath.Clean(outputDir)
}

// intFromEnv parses the named environment variable as an integer.
func intFromEnv(key string) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, fmt.Errorf("environment variable %s is not set", key)
	}
	return strconv.Atoi(v)
}

func main() {
	w, err := tfresize.NewWorker(inputGlob, outputDir, rank, size)
	if err != nil {
		log.Fatal(err)
	}
	w.ScaleFactor = scaleFactor
	w.JPEGQuality = jpegQuality

	if err := w.Run(); err != nil {
		log.Fatal("Processing failed: ", err)
	}
}
