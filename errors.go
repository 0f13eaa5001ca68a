package tfresize

// The fatal error classes of a worker run. None of them is recovered locally: each
// propagates out of Worker.Run and terminates the process with a non-zero exit status.

import "fmt"

// A PartitionError reports a failure to enumerate the input shard listing. It occurs
// before any shard is touched.
type PartitionError struct {
	Pattern string // The input glob pattern.
	Err     error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("cannot list shards matching %q: %v", e.Pattern, e.Err)
}

func (e *PartitionError) Unwrap() error { return e.Err }

// A RecordDecodeError reports a record that could not be decoded from, or re-encoded
// to, its wire format. It identifies the shard and the zero-based record index at fault.
type RecordDecodeError struct {
	Shard string
	Index int
	Err   error
}

func (e *RecordDecodeError) Error() string {
	return fmt.Sprintf("%s: record %d: %v", e.Shard, e.Index, e.Err)
}

func (e *RecordDecodeError) Unwrap() error { return e.Err }

// An ImageCodecError reports an image payload that could not be decoded or re-encoded.
type ImageCodecError struct {
	Shard    string
	Filename string // The record's image file name.
	Err      error
}

func (e *ImageCodecError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Shard, e.Filename, e.Err)
}

func (e *ImageCodecError) Unwrap() error { return e.Err }

// An IOError reports a failed open, read, write or close of a shard file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
