// Fixed-block memory pool: out of scope per spec.md §1 ("Non-goals: ...
// dynamic memory allocator"), but carried forward as a companion utility the
// way stimer.go and bits.go are — QuarkTS tasks commonly size their
// UserData/AsyncData payloads from a pool like this instead of the Go
// runtime's GC, and SPEC_FULL.md §4.7 gives it a home.
//
// Grounded on QuarkTS.c's qMemoryAlloc/qMemoryFree: a fixed arena divided
// into equal-size blocks, a parallel "block descriptor" array where a
// nonzero value at index i records the run-length (in blocks) of the
// allocation starting at i, and first-fit scanning for a long-enough run of
// free blocks. The descriptor-run-length scan is preserved verbatim; what
// changes is that Alloc returns a typed Handle instead of a raw pointer,
// since Go slices don't support qMemoryFree's "which block does this pointer
// belong to" address arithmetic without unsafe.
//
// Restyled after internal/readfile_buf_pool.go's pool discipline
// (mutex-guarded, bounded pool) and config string parsing borrowed from the
// teacher's CompressorPoolConfig.BatchTargetSize field.

package quarkts_internal

import (
	"errors"
	"sync"

	"github.com/docker/go-units"
)

var (
	ErrMemPoolBadBlockSize = errors.New("mempool block size must be > 0")
	ErrMemPoolBadNumBlocks = errors.New("mempool block count must be > 0")
	ErrMemPoolExhausted    = errors.New("mempool has no free run of blocks large enough")
	ErrMemPoolBadHandle    = errors.New("mempool handle does not belong to this pool")
)

// MemPool is a fixed-capacity arena of equal-size blocks. Allocation sizes
// are rounded up to the nearest multiple of BlockSize.
type MemPool struct {
	mu sync.Mutex

	blockSize   int
	numBlocks   int
	arena       []byte
	descriptors []int // descriptors[i] > 0: allocation run of that many blocks starts at i
}

// Handle identifies a live allocation from a MemPool.
type Handle struct {
	start int
	run   int
}

// NewMemPool allocates a pool of numBlocks blocks of blockSize bytes each.
func NewMemPool(blockSize, numBlocks int) (*MemPool, error) {
	if blockSize <= 0 {
		return nil, ErrMemPoolBadBlockSize
	}
	if numBlocks <= 0 {
		return nil, ErrMemPoolBadNumBlocks
	}
	return &MemPool{
		blockSize:   blockSize,
		numBlocks:   numBlocks,
		arena:       make([]byte, blockSize*numBlocks),
		descriptors: make([]int, numBlocks),
	}, nil
}

// NewMemPoolFromSizeString is NewMemPool with blockSize parsed from a
// human-readable size string ("64B", "1k", "4KiB"), using the same
// docker/go-units parser the teacher uses for CompressorPoolConfig's
// BatchTargetSize.
func NewMemPoolFromSizeString(blockSizeStr string, numBlocks int) (*MemPool, error) {
	n, err := units.RAMInBytes(blockSizeStr)
	if err != nil {
		return nil, err
	}
	return NewMemPool(int(n), numBlocks)
}

// BlockSize and NumBlocks report the pool's fixed geometry.
func (p *MemPool) BlockSize() int { return p.blockSize }
func (p *MemPool) NumBlocks() int { return p.numBlocks }

// Alloc reserves a zero-initialized run of blocks large enough to hold size
// bytes, scanning for the first such run (lowest starting index), mirroring
// qMemoryAlloc's first-fit block-run scan exactly.
func (p *MemPool) Alloc(size int) (*Handle, []byte, error) {
	if size <= 0 {
		return nil, nil, ErrMemPoolBadBlockSize
	}
	needBlocks := (size + p.blockSize - 1) / p.blockSize

	p.mu.Lock()
	defer p.mu.Unlock()

	j := 0
	for j < p.numBlocks {
		i := j
		for i < p.numBlocks && p.descriptors[i] == 0 {
			i++
		}
		run := i - j
		if run >= needBlocks {
			p.descriptors[j] = needBlocks
			start := j * p.blockSize
			end := start + needBlocks*p.blockSize
			for k := start; k < end; k++ {
				p.arena[k] = 0
			}
			return &Handle{start: j, run: needBlocks}, p.arena[start : start+size : end], nil
		}
		if i >= p.numBlocks {
			break
		}
		j = i + p.descriptors[i]
	}
	return nil, nil, ErrMemPoolExhausted
}

// Free returns h's blocks to the pool. Freeing a nil handle is a no-op,
// matching qMemoryFree's NULL tolerance; a handle that does not match a live
// allocation at its start block (e.g. one already freed) returns
// ErrMemPoolBadHandle.
func (p *MemPool) Free(h *Handle) error {
	if h == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.start < 0 || h.start >= p.numBlocks || p.descriptors[h.start] != h.run {
		return ErrMemPoolBadHandle
	}
	p.descriptors[h.start] = 0
	return nil
}

// FreeBlocks returns the number of currently unallocated blocks.
func (p *MemPool) FreeBlocks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	free := 0
	i := 0
	for i < p.numBlocks {
		if p.descriptors[i] == 0 {
			free++
			i++
			continue
		}
		i += p.descriptors[i]
	}
	return free
}
