package tfresize

// Worker orchestration: partition the shard listing, then stream every record of
// every assigned shard through decode, resize and re-encode.

import (
	"io"
	"log"
	"path/filepath"

	"github.com/pkg/errors"
)

// DefaultScaleFactor is the factor applied to both image dimensions when none is
// configured.
const DefaultScaleFactor = 3.0

// DefaultJPEGQuality is the re-encoding quality. Kept at the maximum to minimize
// recompression loss.
const DefaultJPEGQuality = 100

// Worker processes the subset of input shards that its rank selects from the sorted
// shard listing. Workers in a group share nothing at runtime: the partition is a pure
// function of the listing and the worker's identity, and output files never collide
// because they are derived 1:1 from input shard basenames.
type Worker struct {
	Rank int // Zero-based identity within the group.
	Size int // Total number of workers in the group.

	InputGlob string // Glob pattern matching the input shard files.
	OutputDir string // Directory receiving one output shard per input shard.

	ScaleFactor float64
	JPEGQuality int
}

// NewWorker validates the externally supplied worker identity and returns a Worker
// with the default transform settings.
func NewWorker(inputGlob, outputDir string, rank, size int) (*Worker, error) {
	if size < 1 || rank < 0 || rank >= size {
		return nil, errors.Errorf("invalid worker identity: rank %d of %d", rank, size)
	}
	return &Worker{
		Rank:        rank,
		Size:        size,
		InputGlob:   inputGlob,
		OutputDir:   outputDir,
		ScaleFactor: DefaultScaleFactor,
		JPEGQuality: DefaultJPEGQuality,
	}, nil
}

// Run lists the shards matching the input pattern, takes the subset assigned to this
// worker's rank and processes each assigned shard in listing order, strictly one at a
// time. The first fatal error terminates the run immediately; assigned shards not yet
// started remain unprocessed and are not picked up by any other worker.
func (w *Worker) Run() error {
	shards, err := listShards(w.InputGlob)
	if err != nil {
		return err
	}

	assigned := partitionByRank(shards, w.Rank, w.Size)
	log.Printf("Rank %d of %d: assigned %d of %d shards", w.Rank, w.Size, len(assigned), len(shards))

	for _, inPath := range assigned {
		outPath := filepath.Join(w.OutputDir, filepath.Base(inPath))
		log.Printf("Rank %d: %s => %s", w.Rank, inPath, outPath)
		if err := w.processShard(inPath, outPath); err != nil {
			return err
		}
	}
	return nil
}

// processShard streams every record of the shard at inPath through the codec and the
// image transform and writes the results to outPath, in order. Records are handled
// fully sequentially; the record count and the bounding boxes of every record carry
// over unchanged.
func (w *Worker) processShard(inPath, outPath string) error {
	r, err := OpenShardReader(inPath)
	if err != nil {
		return err
	}
	defer r.Close()

	sw, err := CreateShardWriter(outPath)
	if err != nil {
		return err
	}
	defer sw.Close()

	stats := newShardStats(inPath)
	for i := 0; ; i++ {
		raw, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		rec, err := DecodeRecord(raw)
		if err != nil {
			return &RecordDecodeError{Shard: inPath, Index: i, Err: err}
		}
		originalLen := len(rec.Encoded)

		encoded, height, width, err := resizeEncodedImage(
			rec.Encoded, rec.Height, rec.Width, w.ScaleFactor, w.JPEGQuality)
		if err != nil {
			return &ImageCodecError{Shard: inPath, Filename: rec.Filename, Err: err}
		}
		rec.Encoded = encoded
		rec.Height = height
		rec.Width = width

		out, err := rec.Encode()
		if err != nil {
			return &RecordDecodeError{Shard: inPath, Index: i, Err: err}
		}
		if err := sw.Write(out); err != nil {
			return err
		}

		stats.addRecord(rec.Filename, originalLen, len(rec.Encoded))
	}

	if err := sw.Close(); err != nil {
		return err
	}
	stats.summarize()
	return nil
}
