// Package langsrv realizes spec §5's "language server" paragraph: the
// one concurrent consumer of an otherwise single-threaded, stage-pure
// pipeline. A receiver goroutine decodes newline-delimited JSON
// requests and hands them to a single worker goroutine, which mutates
// an in-memory path→ModuleInfo cache and pushes replies onto a bounded
// queue; a sender goroutine drains that queue to its writer. Parsed modules are handed around by value (cheap
// thanks to green-tree sharing, per spec.md), and no lock is held
// across a parse/response boundary — the mutex below is taken only to
// read or swap a map entry, never while syntax.ParseModule runs.
//
// No JSON-RPC or LSP framework (e.g. an implementation of the
// language-server-protocol wire format) appears anywhere in the
// retrieved example pack, so this is hand-rolled on stdlib
// encoding/json + channels on purpose, matching the teacher's own
// preference for stdlib-only plumbing (internal/lexer, internal/ir
// etc. import nothing but the standard library either).
package langsrv

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/hassan/tyc/internal/ast"
	"github.com/hassan/tyc/internal/syntax"
)

// Request is one NDJSON line from the client: open or update the
// module at Path with the given source Text.
type Request struct {
	ID   int    `json:"id"`
	Path string `json:"path"`
	Text string `json:"text"`
}

// Response is one NDJSON reply line.
type Response struct {
	ID     int      `json:"id"`
	Path   string   `json:"path"`
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

// ModuleInfo is the cached result of the last parse for one path.
// Copied by value between the worker and any future reader: the green
// tree it points to is immutable and shared, so the copy is cheap.
type ModuleInfo struct {
	Tree   *syntax.Tree
	Module *ast.Module
}

// Server holds the shared path→ModuleInfo cache and the bounded
// request/response queues spec §5 describes.
type Server struct {
	in  chan Request
	out chan Response

	mu      sync.Mutex
	modules map[string]ModuleInfo
}

// NewServer builds a Server with an outbound queue bounded at
// queueSize, the "bounded queue" spec §5 calls for.
func NewServer(queueSize int) *Server {
	return &Server{
		in:      make(chan Request),
		out:     make(chan Response, queueSize),
		modules: make(map[string]ModuleInfo),
	}
}

// Serve runs the receiver, worker, and sender concurrently over r/w
// until r is exhausted, then drains the remaining replies and
// returns. There is no cancellation (spec §5: "Cancellation: none").
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	var wg sync.WaitGroup
	var recvErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(s.in)
		recvErr = s.receive(r)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.work()
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(s.out)
		close(done)
	}()

	if err := s.send(w); err != nil {
		return err
	}
	<-done
	return recvErr
}

// receive decodes newline-delimited JSON requests from r into s.in
// until EOF.
func (s *Server) receive(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}
		s.in <- req
	}
	return scanner.Err()
}

// work is the single module-cache owner: it drains s.in, parses each
// request's text, swaps the cache entry under mu, and pushes the
// reply onto s.out. The mutex is held only for the map write, never
// across the parse.
func (s *Server) work() {
	for req := range s.in {
		tree := syntax.ParseModule(req.Text)
		resp := Response{ID: req.ID, Path: req.Path, OK: len(tree.Errors) == 0, Errors: tree.Errors}

		if resp.OK {
			info := ModuleInfo{Tree: tree, Module: ast.NewModule(syntax.NewRoot(tree.Root))}
			s.mu.Lock()
			s.modules[req.Path] = info
			s.mu.Unlock()
		}

		s.out <- resp
	}
}

// send drains s.out to w as newline-delimited JSON until the channel
// is closed.
func (s *Server) send(w io.Writer) error {
	enc := json.NewEncoder(w)
	for resp := range s.out {
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return nil
}

// Module returns the last successfully parsed module at path, if any.
func (s *Server) Module(path string) (ModuleInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.modules[path]
	return info, ok
}
