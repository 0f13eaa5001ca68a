package tfresize

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TestShardRoundTrip verifies that records written to a shard are read back in
// write order and that the sequence terminates with io.EOF.
func TestShardRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train-00000")
	records := [][]byte{
		[]byte("first record"),
		[]byte("second record"),
		{},
		[]byte("fourth record"),
	}

	w, err := CreateShardWriter(path)
	if err != nil {
		t.Fatalf("Failed to create the shard: %v", err)
	}
	for i, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Failed to write record %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close the shard: %v", err)
	}

	r, err := OpenShardReader(path)
	if err != nil {
		t.Fatalf("Failed to open the shard: %v", err)
	}
	defer r.Close()

	for i, want := range records {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Failed to read record %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("record %d: expected %q, got %q", i, want, got)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after the last record, got %v", err)
	}
}

// TestShardWriterTruncatesExisting verifies that reprocessing a shard overwrites the
// previous output from scratch.
func TestShardWriterTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train-00000")
	if err := os.WriteFile(path, []byte("stale output from an aborted run"), 0o644); err != nil {
		t.Fatalf("Failed to create the fixture: %v", err)
	}

	w, err := CreateShardWriter(path)
	if err != nil {
		t.Fatalf("Failed to create the shard: %v", err)
	}
	if err := w.Write([]byte("fresh")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	r, err := OpenShardReader(path)
	if err != nil {
		t.Fatalf("Failed to open the shard: %v", err)
	}
	defer r.Close()
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if !bytes.Equal(got, []byte("fresh")) {
		t.Errorf("expected the rewritten record, got %q", got)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestShardWriterCloseIdempotent verifies that closing twice is harmless.
func TestShardWriterCloseIdempotent(t *testing.T) {
	w, err := CreateShardWriter(filepath.Join(t.TempDir(), "train-00000"))
	if err != nil {
		t.Fatalf("Failed to create the shard: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

// TestShardReaderMalformedFrame verifies that a truncated record-length header is a
// fatal error for the shard, not a silent end of stream.
func TestShardReaderMalformedFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train-00000")
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0o644); err != nil {
		t.Fatalf("Failed to create the fixture: %v", err)
	}

	r, err := OpenShardReader(path)
	if err != nil {
		t.Fatalf("Failed to open the shard: %v", err)
	}
	defer r.Close()

	_, err = r.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("Expected a framing error, got %v", err)
	}
	if _, ok := err.(*IOError); !ok {
		t.Errorf("expected an *IOError, got %T", err)
	}
}

// TestShardReaderEmptyFile verifies that an empty shard yields io.EOF immediately.
func TestShardReaderEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train-00000")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to create the fixture: %v", err)
	}

	r, err := OpenShardReader(path)
	if err != nil {
		t.Fatalf("Failed to open the shard: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestOpenShardReaderMissingFile verifies the open failure surfaces as an *IOError.
func TestOpenShardReaderMissingFile(t *testing.T) {
	_, err := OpenShardReader(filepath.Join(t.TempDir(), "no-such-shard"))
	if err == nil {
		t.Fatal("Expected an error, got none")
	}
	if _, ok := err.(*IOError); !ok {
		t.Errorf("expected an *IOError, got %T", err)
	}
}
