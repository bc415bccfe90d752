package pow

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

// workerStride is the per-worker starting-nonce offset (spec.md §4.2):
// worker k starts its search at n0 + k*workerStride so that, absent a
// collision over a realistic run duration, no two workers hash the
// same (nonce, time) pair before one of them succeeds.
const workerStride = uint64(1) << 56

// errWon is returned by a worker goroutine purely to make
// errgroup.Wait cancel every sibling's context; it is never surfaced
// to Pool.Run's caller.
type errWon struct{}

func (errWon) Error() string { return "pow: a worker found a solution" }

// Pool parallelizes a nonce search across Workers goroutines, each
// given its own clone of the header template (spec.md §4.2).
type Pool struct {
	// Workers is the number of parallel kernel invocations. Must be >= 1.
	Workers int
	// NewAlgorithm constructs a fresh Algorithm for each worker; digest
	// state is never shared across goroutines.
	NewAlgorithm func() Algorithm
	// Clock supplies wall-clock time to the kernel (spec.md §4.1 step 3).
	Clock Clock
	// Report, if non-nil, is called from every worker with the number
	// of hashes completed each time its inner counter rolls over (see
	// Search). Called concurrently from up to Workers goroutines.
	Report func(hashes uint64)
}

// Run searches template (left untouched) for a nonce starting at n0
// that satisfies target, spreading the work across p.Workers clones.
// It returns the winning worker's mutated buffer and the nonce it
// found. Run does not return until every spawned worker has
// terminated -- no goroutine outlives the call (spec.md §4.2
// invariants).
//
// If ctx is cancelled (or another job preempts this one) before any
// worker succeeds, Run returns ctx.Err() and no buffer.
func (p *Pool) Run(ctx context.Context, template []byte, target *chainweb.Target, n0 uint64) ([]byte, uint64, error) {
	if p.Workers <= 1 {
		buf := make([]byte, len(template))
		copy(buf, template)
		nonce, ok := Search(ctx, buf, target, n0, p.NewAlgorithm(), p.Clock, p.Report)
		if !ok {
			return nil, 0, ctx.Err()
		}
		return buf, nonce, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	var (
		once       sync.Once
		winnerBuf  []byte
		winnerNonc uint64
	)

	for k := 0; k < p.Workers; k++ {
		k := k
		g.Go(func() error {
			buf := make([]byte, len(template))
			copy(buf, template)

			start := n0 + uint64(k)*workerStride
			nonce, ok := Search(gctx, buf, target, start, p.NewAlgorithm(), p.Clock, p.Report)
			if !ok {
				return nil
			}
			once.Do(func() {
				winnerBuf = buf
				winnerNonc = nonce
			})
			return errWon{}
		})
	}

	if err := g.Wait(); err != nil {
		if _, won := err.(errWon); !won {
			return nil, 0, err
		}
	}
	if winnerBuf == nil {
		return nil, 0, ctx.Err()
	}
	return winnerBuf, winnerNonc, nil
}
