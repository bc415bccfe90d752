// Package mining owns the job mailbox and results map and coordinates
// preemption between them -- the Supervisor of spec.md §4.3.
package mining

import (
	"context"
	"fmt"
	"sync"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
	"github.com/kadena-io/chainweb-mining-worker/internal/log"
	"github.com/kadena-io/chainweb-mining-worker/pow"
)

// Supervisor accepts job submissions, preempts in-flight searches when
// a newer job arrives, and serves polling queries against completed
// headers. One Supervisor runs one mining loop goroutine for its
// entire lifetime, grounded on the teacher's newWorkLoop/mainLoop split
// in miner/worker.go: a coordinating goroutine that races a
// "new work arrived" signal against an in-flight operation.
type Supervisor struct {
	decoder  chainweb.Decoder
	cores    int
	clock    pow.Clock
	algoCtor func() pow.Algorithm

	box      *mailbox
	results  *resultStore
	hashrate *hashrateMonitor
	log      *log.Logger

	quit         chan struct{}
	done         chan struct{}
	shutdownOnce sync.Once
}

// New constructs a Supervisor for the given network version and
// decoder, running pool searches across cores workers. It returns an
// error if the version has no registered digest algorithm -- spec.md
// §9's Open Question decision is that an unlisted version is never
// guessed at, even here at construction time.
func New(decoder chainweb.Decoder, version chainweb.Version, cores int, clock pow.Clock) (*Supervisor, error) {
	algoCtor, err := pow.AlgorithmFor(version)
	if err != nil {
		return nil, err
	}
	if cores < 1 {
		cores = 1
	}

	s := &Supervisor{
		decoder:  decoder,
		cores:    cores,
		clock:    clock,
		algoCtor: algoCtor,
		box:      newMailbox(),
		results:  newResultStore(),
		hashrate: newHashrateMonitor(),
		log:      log.Root(),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Submit places header into the work mailbox, replacing any job
// currently waiting there (spec.md §4.3). It never blocks. buf must be
// exactly the decoder's fixed header length and must decode cleanly --
// both are caller-misuse conditions rejected synchronously, before the
// mailbox is touched.
func (s *Supervisor) Submit(buf []byte) error {
	if want := s.decoder.HeaderLength(); len(buf) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", chainweb.ErrWrongHeaderLength, len(buf), want)
	}
	h, err := s.decoder.Decode(buf)
	if err != nil {
		return err
	}
	s.box.put(h)
	s.log.Info("job accepted", "chain", h.ChainID, "height", h.Height)
	s.log.Trace("job key", "key", log.Dump(h.Key()))
	return nil
}

// Poll looks up a completed header by key. It never blocks.
func (s *Supervisor) Poll(key chainweb.Key) (*chainweb.BlockHeader, bool) {
	return s.results.get(key)
}

// PollChain returns every completed header recorded so far for id.
func (s *Supervisor) PollChain(id chainweb.ChainID) []*chainweb.BlockHeader {
	return s.results.forChain(id)
}

// HashesPerSecond reports the most recently measured aggregate hash
// rate across all workers of the current (or most recent) run.
func (s *Supervisor) HashesPerSecond() float64 {
	return s.hashrate.hashesPerSecond()
}

// Shutdown stops the mining loop, cancelling any in-flight pool run,
// and waits for it to fully terminate before returning -- the same
// close-then-Wait idiom as the teacher's CPUMiner.Stop. It is
// idempotent: calling it more than once is a no-op after the first
// call. ctx bounds how long Shutdown will wait for the mining loop to
// exit; it does not affect the loop's own cancellation signal, which
// is unconditional.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.quit)
		s.box.close()
		select {
		case <-s.done:
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
		s.hashrate.stop()
	})
	return err
}

// run is the mining loop of spec.md §4.3: take a job, race a pool run
// against a newer submission, repeat.
func (s *Supervisor) run() {
	defer close(s.done)

	for {
		h, since, ok := s.box.take()
		if !ok {
			return // mailbox closed with nothing left to mine
		}

		select {
		case <-s.quit:
			return
		default:
		}

		if !s.runOne(h, since) {
			return
		}
	}
}

// runOne races a single pool run for h against preemption or shutdown.
// since must be the write counter take() reported alongside h, captured
// under the same lock that consumed it -- any version sampled
// separately after take() returns could already have been bumped by a
// Submit that landed in the gap, which would make waitNewSignal never
// fire for that already-enqueued job. It reports whether the mining
// loop should continue.
func (s *Supervisor) runOne(h *chainweb.BlockHeader, since uint64) bool {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := make(chan *chainweb.BlockHeader, 1)
	go func() {
		pool := &pow.Pool{
			Workers:      s.cores,
			NewAlgorithm: s.algoCtor,
			Clock:        s.clock,
			Report:       s.hashrate.report,
		}
		buf, _, err := pool.Run(ctx, h.Encoded(), &h.Target, h.Nonce)
		if err != nil {
			return // cancelled: preempted or shutting down
		}
		mined, err := s.decoder.Decode(buf)
		if err != nil {
			s.log.Error("failed to decode mined header", "chain", h.ChainID, "height", h.Height, "err", err)
			return
		}
		result <- mined
	}()

	select {
	case mined := <-result:
		s.results.put(mined)
		s.log.Info("job completed", "chain", mined.ChainID, "height", mined.Height, "nonce", mined.Nonce)
		return true
	case <-s.box.waitNewSignal(since):
		return true // preempted; next loop iteration takes the new job
	case <-s.quit:
		return false
	}
}
