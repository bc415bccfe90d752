package mining

import (
	"sync"
	"time"
)

// hpsUpdateSecs is how often hashesPerSecond is recomputed, mirroring
// the teacher's speed monitor update cadence.
const hpsUpdateSecs = 5

// hashrateMonitor tracks hashes/second from periodic hash-count
// reports. Grounded on the teacher's CPUMiner.speedMonitor: an update
// channel fed by workers and a ticker that turns accumulated counts
// into a rate, simplified to a single rolling window instead of the
// teacher's hour-long sample list (the core has no dashboard surface
// to serve that finer history to).
type hashrateMonitor struct {
	updates chan uint64
	quit    chan struct{}
	done    chan struct{}

	mu           sync.Mutex
	hashesPerSec float64
}

func newHashrateMonitor() *hashrateMonitor {
	m := &hashrateMonitor{
		updates: make(chan uint64, 64),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// report records hashes completed; called from worker goroutines on
// the kernel's periodic refresh cadence, never per-hash.
func (m *hashrateMonitor) report(hashes uint64) {
	select {
	case m.updates <- hashes:
	case <-m.quit:
	}
}

func (m *hashrateMonitor) run() {
	defer close(m.done)

	var windowTotal uint64
	ticker := time.NewTicker(hpsUpdateSecs * time.Second)
	defer ticker.Stop()
	windowStart := time.Now()

	for {
		select {
		case n := <-m.updates:
			windowTotal += n

		case now := <-ticker.C:
			elapsed := now.Sub(windowStart).Seconds()
			rate := 0.0
			if elapsed > 0 {
				rate = float64(windowTotal) / elapsed
			}
			m.mu.Lock()
			m.hashesPerSec = rate
			m.mu.Unlock()
			windowTotal = 0
			windowStart = now

		case <-m.quit:
			return
		}
	}
}

// hashesPerSecond returns the most recently computed rate. Zero until
// the first window elapses.
func (m *hashrateMonitor) hashesPerSecond() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashesPerSec
}

func (m *hashrateMonitor) stop() {
	close(m.quit)
	<-m.done
}
