package tfresize

// Size accounting for the records of one shard. Observability output only; nothing
// here is persisted or consumed downstream.

import "log"

// shardStats accumulates the record count and the summed encoded-image lengths,
// before and after resizing, for one shard.
type shardStats struct {
	shard         string
	records       int
	originalBytes int64
	resizedBytes  int64
}

func newShardStats(shard string) *shardStats {
	return &shardStats{shard: shard}
}

// addRecord counts one processed record and logs its encoded size before and after
// the resize.
func (s *shardStats) addRecord(filename string, originalLen, resizedLen int) {
	s.records++
	s.originalBytes += int64(originalLen)
	s.resizedBytes += int64(resizedLen)
	log.Printf("%s: %s %.0f KB => %.0f KB",
		s.shard, filename, float64(originalLen)/1000, float64(resizedLen)/1000)
}

// summarize logs the record count and the mean encoded sizes for the shard. A shard
// with no records is reported without the means to avoid dividing by zero.
func (s *shardStats) summarize() {
	if s.records == 0 {
		log.Printf("%s: 0 images", s.shard)
		return
	}
	n := float64(s.records)
	log.Printf("%s: %d images, mean size %.0f KB => %.0f KB",
		s.shard, s.records, float64(s.originalBytes)/n/1000, float64(s.resizedBytes)/n/1000)
}
