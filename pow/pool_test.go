package pow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

func TestPoolRunSingleWorkerTrivialTarget(t *testing.T) {
	target := maxTarget()
	p := &Pool{Workers: 1, NewAlgorithm: NewSHA512_256, Clock: fixedClock(time.Unix(0, 0))}

	buf, _, err := p.Run(context.Background(), make([]byte, 32), &target, 0)
	require.NoError(t, err)

	a := NewSHA512_256()
	a.Write(buf)
	digest := a.Sum32()
	require.True(t, target.Satisfies(&digest), "returned buffer does not satisfy the target")
}

func TestPoolRunParallelismCorrectness(t *testing.T) {
	// A findable but nontrivial target across 4 workers (spec.md §8
	// scenario 5): top two bytes must be zero.
	var target chainweb.Target
	for i := 0; i < 30; i++ {
		target[i] = 0xff
	}

	p := &Pool{Workers: 4, NewAlgorithm: NewSHA512_256, Clock: fixedClock(time.Unix(0, 0))}
	buf, nonce, err := p.Run(context.Background(), make([]byte, 32), &target, 0)
	require.NoError(t, err)

	// Re-verify single-threaded.
	verifyBuf := make([]byte, len(buf))
	copy(verifyBuf, buf)
	gotNonce, ok := Search(context.Background(), verifyBuf, &target, nonce, NewSHA512_256(), fixedClock(time.Unix(0, 0)), nil)
	require.True(t, ok)
	require.Equal(t, nonce, gotNonce, "winning nonce did not re-verify single-threaded")
}

func TestPoolRunReturnsNoGoroutineLeaksOnCancel(t *testing.T) {
	var target chainweb.Target // unsatisfiable
	p := &Pool{Workers: 4, NewAlgorithm: NewSHA512_256, Clock: fixedClock(time.Unix(0, 0))}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, _, err := p.Run(ctx, make([]byte, 32), &target, 0)
	require.Error(t, err, "expected Run to report an error when cancelled before any success")
	// Run having returned at all (rather than hanging) demonstrates
	// every worker terminated -- the test's own deadline would fail it
	// otherwise via `go test`'s timeout.
}
