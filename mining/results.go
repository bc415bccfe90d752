package mining

import (
	"sync"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

// resultStore is the supervisor's results map (spec.md §3): written
// only by the mining loop, read by any number of concurrent pollers.
// Entries are never evicted -- a results map with an eviction policy
// would violate that invariant, which is why this is a plain guarded
// map rather than one of the teacher pack's LRU/cache libraries (see
// DESIGN.md).
type resultStore struct {
	mu   sync.RWMutex
	vals map[chainweb.Key]*chainweb.BlockHeader
}

func newResultStore() *resultStore {
	return &resultStore{vals: make(map[chainweb.Key]*chainweb.BlockHeader)}
}

// put records h under its own key, overwriting any prior entry for
// the same key (spec.md §3: "a second success for the same key
// overwrites").
func (s *resultStore) put(h *chainweb.BlockHeader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[h.Key()] = h
}

// get returns the recorded header for key, if any.
func (s *resultStore) get(key chainweb.Key) (*chainweb.BlockHeader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.vals[key]
	return h, ok
}

// forChain returns every recorded header on the given chain, in no
// particular order.
func (s *resultStore) forChain(id chainweb.ChainID) []*chainweb.BlockHeader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*chainweb.BlockHeader
	for k, h := range s.vals {
		if k.ChainID == id {
			out = append(out, h)
		}
	}
	return out
}
