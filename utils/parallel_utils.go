package utils

import (
	"runtime"
	"sync"
)

// ParallelDegree returns the number of go routines to use on maxIndex items,
// procLimit = 0 means one per CPU.
func ParallelDegree(procLimit, maxIndex int) (np int) {
	if np = procLimit; np <= 0 {
		np = runtime.NumCPU()
	}
	if np > maxIndex {
		np = max(maxIndex, 1)
	}
	return
}

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

// Split1D returns the index range of one partition. The first
// MaxIndex % ParallelDegree partitions hold one extra item.
func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		size  = pm.MaxIndex / pm.ParallelDegree
		extra = pm.MaxIndex % pm.ParallelDegree
	)
	bucket[0] = threadNum*size + min(threadNum, extra)
	bucket[1] = bucket[0] + size
	if threadNum < extra {
		bucket[1]++
	}
	return
}

// Run calls f once per partition, each in its own go routine, and waits for
// all of them.
func (pm *PartitionMap) Run(f func(np, kMin, kMax int)) {
	var (
		wg sync.WaitGroup
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			f(np, kMin, kMax)
			wg.Done()
		}(np)
	}
	wg.Wait()
}
