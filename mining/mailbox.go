package mining

import (
	"sync"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

// mailbox is the single-slot "current job" cell the supervisor races a
// pool run against: put replaces unconditionally, take blocks until
// filled and consumes, and waitNew blocks until a write that happens
// after the call was made -- never the write that handed over the
// value currently being worked on. A monotonic write counter behind a
// condition variable gives all three without a separate done channel:
// closing the mailbox just sets a closed flag under the same lock and
// wakes everyone up.
type mailbox struct {
	mu      sync.Mutex
	cond    *sync.Cond
	value   *chainweb.BlockHeader
	version uint64
	closed  bool
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// put replaces the mailbox's contents unconditionally, per spec.md
// §4.3's submit ("place header into work, replacing any existing
// entry"). It never blocks.
func (m *mailbox) put(h *chainweb.BlockHeader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.value = h
	m.version++
	m.cond.Broadcast()
}

// take blocks until the mailbox holds a value, then consumes and
// returns it along with the write counter at the moment of consumption.
// That version is the only safe waitNew baseline for the run the caller
// is about to start: reading it under the same lock that consumes the
// value closes the gap a separate currentVersion() call would leave
// open for a put to land in unnoticed. take returns ok=false only if
// the mailbox was closed with nothing left to take.
func (m *mailbox) take() (h *chainweb.BlockHeader, version uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.value == nil && !m.closed {
		m.cond.Wait()
	}
	if m.value == nil {
		return nil, m.version, false
	}
	h, m.value = m.value, nil
	return h, m.version, true
}

// waitNew blocks until a write happens after since (a version
// previously observed by the caller), then returns the mailbox's
// write counter at that point. It is a peek, not a take: the value
// itself is left for the next take. waitNew also returns when the
// mailbox is closed, so a blocked supervisor can notice shutdown.
func (m *mailbox) waitNew(since uint64) (version uint64, closed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.version == since && !m.closed {
		m.cond.Wait()
	}
	return m.version, m.closed
}

// currentVersion reports the write counter without blocking. The
// supervisor's own waitNew baseline always comes from take()'s return
// value instead, since this is a separate lock acquisition and so can't
// serve as a baseline for a job already consumed; this remains useful
// for callers observing the mailbox without taking from it (tests).
func (m *mailbox) currentVersion() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// waitNewSignal returns a channel that is closed once a write happens
// after since, or the mailbox is closed -- letting the supervisor race
// it against a pool run in a select statement instead of blocking a
// second goroutine directly on waitNew. If the run ends some other way
// (result ready, shutdown) before a new write arrives, the background
// goroutine stays parked in waitNew; it is not cancelled early, only
// woken by the mailbox's own next put or close, same as any other
// waiter.
func (m *mailbox) waitNewSignal(since uint64) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		m.waitNew(since)
		close(done)
	}()
	return done
}

// close marks the mailbox closed and wakes every blocked take/waitNew.
// Idempotent.
func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.cond.Broadcast()
}
