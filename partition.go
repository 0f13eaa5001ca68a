package tfresize

// Static partitioning of the shard listing across a worker group.

import (
	"path/filepath"
	"sort"
)

// listShards expands the glob pattern and returns the matching shard paths in
// lexicographic order. The partition is only disjoint across workers if every worker
// resolves the pattern to the identical listing, which is the launch contract for a
// shared filesystem. An empty listing is not an error; the worker simply has no work.
func listShards(pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &PartitionError{Pattern: pattern, Err: err}
	}
	sort.Strings(paths)
	return paths, nil
}

// partitionByRank returns the subset of shards assigned to rank in a group of size
// workers: every size-th shard starting at index rank. The subsets of all ranks are
// pairwise disjoint and together cover the full listing, with no coordination needed
// at runtime.
func partitionByRank(shards []string, rank, size int) []string {
	assigned := make([]string, 0, len(shards)/size+1)
	for i := rank; i < len(shards); i += size {
		assigned = append(assigned, shards[i])
	}
	return assigned
}
