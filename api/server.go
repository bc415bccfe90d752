// Package api realizes spec.md §6's external submit/poll contract as
// an HTTP surface, in the style of the teacher's rpc listener
// (rpc/ipc.go's accept-loop/log-then-serve shape, here expressed over
// net/http instead of a JSON-RPC codec).
package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pborman/uuid"
	"github.com/rs/cors"

	"github.com/kadena-io/chainweb-mining-worker/chainweb"
	"github.com/kadena-io/chainweb-mining-worker/internal/log"
	"github.com/kadena-io/chainweb-mining-worker/mining"
)

// Supervisor is the subset of *mining.Supervisor the HTTP layer needs,
// narrowed so handlers can be tested against a fake.
type Supervisor interface {
	Submit(buf []byte) error
	Poll(key chainweb.Key) (*chainweb.BlockHeader, bool)
	PollChain(id chainweb.ChainID) []*chainweb.BlockHeader
}

var _ Supervisor = (*mining.Supervisor)(nil)

// Server exposes a Supervisor's submit/poll operations over HTTP.
type Server struct {
	sup    Supervisor
	log    *log.Logger
	http   *http.Server
	router *httprouter.Router
}

// NewServer builds a Server listening on addr. It does not start
// listening until ListenAndServe is called.
func NewServer(sup Supervisor, addr string) *Server {
	s := &Server{sup: sup, log: log.Root()}

	s.router = httprouter.New()
	s.router.POST("/chainweb/mining/work", s.handleSubmit)
	s.router.GET("/chainweb/mining/solved/:chain/:height", s.handlePoll)
	s.router.GET("/chainweb/mining/solved/:chain", s.handlePollChain)

	s.http = &http.Server{
		Addr:    addr,
		Handler: cors.Default().Handler(s.router),
	}
	return s
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info("mining api listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleSubmit is the HTTP realization of Supervisor.Submit: the
// request body is the raw serialized header buffer.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reqID := uuid.New()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.log.Warn("submit: failed to read body", "request", reqID, "err", err)
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if err := s.sup.Submit(body); err != nil {
		s.log.Warn("submit rejected", "request", reqID, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.log.Info("submit accepted", "request", reqID, "bytes", len(body))
	w.WriteHeader(http.StatusNoContent)
}

// handlePoll is the HTTP realization of Supervisor.Poll.
func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reqID := uuid.New()

	key, err := parseKey(ps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h, ok := s.sup.Poll(key)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.log.Info("poll hit", "request", reqID, "chain", key.ChainID, "height", key.Height)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(h.Encoded())
}

// handlePollChain lists every result recorded so far on a chain
// (SPEC_FULL.md §5's per-chain poll convenience).
func (s *Server) handlePollChain(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	chainID, err := strconv.ParseUint(ps.ByName("chain"), 10, 32)
	if err != nil {
		http.Error(w, "malformed chain id", http.StatusBadRequest)
		return
	}

	headers := s.sup.PollChain(chainweb.ChainID(chainID))
	w.Header().Set("Content-Type", "application/octet-stream")
	for _, h := range headers {
		w.Write(h.Encoded())
	}
}

func parseKey(ps httprouter.Params) (chainweb.Key, error) {
	chainID, err := strconv.ParseUint(ps.ByName("chain"), 10, 32)
	if err != nil {
		return chainweb.Key{}, errMalformedChain
	}
	height, err := strconv.ParseUint(ps.ByName("height"), 10, 64)
	if err != nil {
		return chainweb.Key{}, errMalformedHeight
	}
	return chainweb.Key{ChainID: chainweb.ChainID(chainID), Height: chainweb.BlockHeight(height)}, nil
}
