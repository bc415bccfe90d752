package pow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func maxTarget() chainweb.Target {
	var t chainweb.Target
	for i := range t {
		t[i] = 0xff
	}
	return t
}

func TestSearchTrivialTargetSucceedsImmediately(t *testing.T) {
	target := maxTarget() // any digest satisfies
	buf := make([]byte, 64)

	nonce, ok := Search(context.Background(), buf, &target, 0, NewSHA512_256(), fixedClock(time.Unix(0, 0)), nil)
	require.True(t, ok, "expected immediate success against the max target")
	assert.EqualValues(t, 0, nonce, "expected the first nonce tried (0) to win")
}

func TestSearchImpossibleTargetIsCancellable(t *testing.T) {
	var target chainweb.Target // all-zero: satisfied only by an all-zero digest, astronomically unlikely
	buf := make([]byte, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, ok := Search(ctx, buf, &target, 0, NewSHA512_256(), fixedClock(time.Unix(0, 0)), nil)
	assert.False(t, ok, "expected the impossible-target search to be cancelled, not to succeed")
	assert.Error(t, ctx.Err())
}

func TestSearchResultSatisfiesTargetWhenReVerified(t *testing.T) {
	// A moderately hard but findable target: the top byte must be zero.
	var target chainweb.Target
	for i := 0; i < 31; i++ {
		target[i] = 0xff
	}
	target[31] = 0x00

	buf := make([]byte, 32)
	nonce, ok := Search(context.Background(), buf, &target, 0, NewSHA512_256(), fixedClock(time.Unix(0, 0)), nil)
	require.True(t, ok, "expected to find a satisfying nonce")

	// Re-verify with an independent, single-threaded hasher (spec.md §8
	// scenario 5's re-verifiability property).
	verifier := NewSHA512_256()
	verifyBuf := make([]byte, len(buf))
	copy(verifyBuf, buf)
	gotNonce, gotOK := Search(context.Background(), verifyBuf, &target, nonce, verifier, fixedClock(time.Unix(0, 0)), nil)
	require.True(t, gotOK)
	assert.Equal(t, nonce, gotNonce, "independent re-verification at the winning nonce should succeed immediately")
}

// countingClock counts how many times it was invoked, letting the test
// assert the creation-time field is refreshed at the documented cadence.
func countingClock(calls *int32) Clock {
	return func() time.Time {
		atomic.AddInt32(calls, 1)
		return time.Unix(0, 0)
	}
}

func TestSearchRefreshesCreationTimeDuringLongRuns(t *testing.T) {
	var target chainweb.Target // unsatisfiable: forces the search past several timeRefreshBatch boundaries
	buf := make([]byte, 32)

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Search(ctx, buf, &target, 0, NewSHA512_256(), countingClock(&calls), nil)
		close(done)
	}()

	// Let it run long enough to cross timeRefreshBatch (100_000 hashes)
	// at least once; a modern core hashes far faster than that per 20ms.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1), "expected the creation-time field to be refreshed at least once during a long search")
}
