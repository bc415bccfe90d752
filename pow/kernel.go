package pow

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

// timeRefreshBatch is the number of inner iterations between
// creation-time refreshes, per spec.md §4.1 step 3.
const timeRefreshBatch = 100_000

// cancelCheckBatch is how often, in inner iterations, the kernel checks
// for cancellation. Spec.md §4.1/§5: cancellation is cooperative and
// is not checked every iteration (that would cost real hashrate), but
// must be observed well within one timeRefreshBatch.
const cancelCheckBatch = 1024

// Clock supplies wall-clock time to the kernel. Abstracted so tests can
// mock it per spec.md §8 scenario 6.
type Clock func() time.Time

// Search mutates buf's nonce and creation-time fields and repeatedly
// hashes it until the digest satisfies target or ctx is cancelled.
//
// buf is the caller's own copy of a header's serialized bytes (the
// Worker Pool clones one per worker, spec.md §4.2); Search owns it
// exclusively for the duration of the call. algo is reused across
// iterations via Reset to avoid reallocating hashing state per hash.
//
// Search returns the winning nonce and true on success, or the next
// nonce it would have tried and false if ctx was cancelled first.
//
// report, if non-nil, is called with timeRefreshBatch each time the
// inner counter rolls over, letting a caller accumulate a hashrate
// estimate (spec.md §9 "supplemented features") without the kernel's
// hot loop taking a lock or channel send on every hash.
func Search(ctx context.Context, buf []byte, target *chainweb.Target, n0 uint64, algo Algorithm, clock Clock, report func(hashes uint64)) (uint64, bool) {
	var digest [32]byte
	n := n0
	i := 0

	for {
		if i == timeRefreshBatch {
			binary.LittleEndian.PutUint64(buf[8:16], uint64(clock().UnixMicro()))
			if report != nil {
				report(timeRefreshBatch)
			}
			i = 0
		}

		if i%cancelCheckBatch == 0 {
			select {
			case <-ctx.Done():
				return n, false
			default:
			}
		}

		binary.LittleEndian.PutUint64(buf[0:8], n)

		algo.Reset()
		algo.Write(buf)
		digest = algo.Sum32()

		if target.Satisfies(&digest) {
			return n, true
		}

		i++
		n++ // wraps modulo 2^64 per spec.md §4.1, which is fine: Go's
		// unsigned overflow is defined wraparound behavior.
	}
}
