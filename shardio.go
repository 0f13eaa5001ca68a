package tfresize

// Sequential shard file I/O in the TFRecord framing format.

import (
	"bufio"
	"io"
	"os"

	"github.com/ryszard/tfutils/go/tfrecord"
)

// ShardReader produces the raw records of one shard file as a lazy, single-pass
// sequence in on-disk order. It supports no random access and cannot be restarted.
type ShardReader struct {
	path string
	file *os.File
}

// OpenShardReader opens the shard file at path for sequential reading.
func OpenShardReader(path string) (*ShardReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	// tfrecord.Read performs a single Read call per record payload, so the
	// reader must not return short reads mid-record; the bare *os.File
	// satisfies that for regular files, a bufio.Reader does not.
	return &ShardReader{path: path, file: f}, nil
}

// Next returns the raw bytes of the next record, or io.EOF after the last one.
// A malformed record frame fails the whole shard; there is no byte-level recovery.
func (r *ShardReader) Next() ([]byte, error) {
	data, err := tfrecord.Read(r.file)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &IOError{Path: r.path, Err: err}
	}
	return data, nil
}

// Close releases the underlying file.
func (r *ShardReader) Close() error {
	return r.file.Close()
}

// ShardWriter appends serialized records to one shard file in write order.
type ShardWriter struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// CreateShardWriter creates, or truncates, the shard file at path. A process crash
// before Close leaves a truncated, unusable file; rerunning the shard overwrites it
// from scratch.
func CreateShardWriter(path string) (*ShardWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return &ShardWriter{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Write appends one serialized record.
func (w *ShardWriter) Write(record []byte) error {
	if err := tfrecord.Write(w.w, record); err != nil {
		return &IOError{Path: w.path, Err: err}
	}
	return nil
}

// Close flushes all buffered records, syncs the file to stable storage and closes it,
// so that every record written before Close is durable. Calls after the first are
// no-ops.
func (w *ShardWriter) Close() (err error) {
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Path: w.path, Err: cerr}
		}
	}()

	if ferr := w.w.Flush(); ferr != nil {
		return &IOError{Path: w.path, Err: ferr}
	}
	if serr := f.Sync(); serr != nil {
		return &IOError{Path: w.path, Err: serr}
	}
	return nil
}
