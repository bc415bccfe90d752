package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
)

type fakeSupervisor struct {
	submitted [][]byte
	submitErr error
	results   map[chainweb.Key]*chainweb.BlockHeader
}

func newFakeSupervisor() *fakeSupervisor {
	return &fakeSupervisor{results: make(map[chainweb.Key]*chainweb.BlockHeader)}
}

func (f *fakeSupervisor) Submit(buf []byte) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.submitted = append(f.submitted, cp)
	return nil
}

func (f *fakeSupervisor) Poll(key chainweb.Key) (*chainweb.BlockHeader, bool) {
	h, ok := f.results[key]
	return h, ok
}

func (f *fakeSupervisor) PollChain(id chainweb.ChainID) []*chainweb.BlockHeader {
	var out []*chainweb.BlockHeader
	for k, h := range f.results {
		if k.ChainID == id {
			out = append(out, h)
		}
	}
	return out
}

func testHeader(t *testing.T, chainID chainweb.ChainID, height chainweb.BlockHeight) *chainweb.BlockHeader {
	t.Helper()
	h, err := chainweb.NewBlockHeader(chainID, height, chainweb.Target{}, make([]byte, chainweb.HeaderPrefixLen))
	require.NoError(t, err)
	return h
}

func TestHandleSubmitAccepted(t *testing.T) {
	sup := newFakeSupervisor()
	s := NewServer(sup, "")

	req := httptest.NewRequest(http.MethodPost, "/chainweb/mining/work", strings.NewReader("header-bytes"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, sup.submitted, 1)
	assert.Equal(t, "header-bytes", string(sup.submitted[0]))
}

func TestHandleSubmitRejected(t *testing.T) {
	sup := newFakeSupervisor()
	sup.submitErr = errMalformedChain // any error stands in for a caller-misuse rejection
	s := NewServer(sup, "")

	req := httptest.NewRequest(http.MethodPost, "/chainweb/mining/work", strings.NewReader("x"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePollFound(t *testing.T) {
	sup := newFakeSupervisor()
	key := chainweb.Key{ChainID: 2, Height: 7}
	sup.results[key] = testHeader(t, key.ChainID, key.Height)
	s := NewServer(sup, "")

	req := httptest.NewRequest(http.MethodGet, "/chainweb/mining/solved/2/7", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, rec.Body.Len())
}

func TestHandlePollNotFound(t *testing.T) {
	sup := newFakeSupervisor()
	s := NewServer(sup, "")

	req := httptest.NewRequest(http.MethodGet, "/chainweb/mining/solved/1/1", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePollMalformedPath(t *testing.T) {
	sup := newFakeSupervisor()
	s := NewServer(sup, "")

	req := httptest.NewRequest(http.MethodGet, "/chainweb/mining/solved/not-a-number/7", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
