package server

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aloha-chat/queryserve/internal/logger"
	"github.com/aloha-chat/queryserve/pkg/directory"
	"github.com/aloha-chat/queryserve/pkg/suggest"
)

// Server owns one client connection and the directory state built up
// over it. Requests are handled in arrival order; the engine can be
// swapped at runtime when the config file changes.
type Server struct {
	mu     sync.Mutex
	engine *suggest.Engine
	snap   *directory.Snapshot

	dec *msgpack.Decoder
	enc *msgpack.Encoder

	requestLog bool
	log        *log.Logger
}

func New(engine *suggest.Engine, snap *directory.Snapshot, in io.Reader, out io.Writer) *Server {
	return &Server{
		engine: engine,
		snap:   snap,
		dec:    msgpack.NewDecoder(in),
		enc:    msgpack.NewEncoder(out),
		log:    logger.New("server"),
	}
}

// SetRequestLog toggles per-request logging.
func (s *Server) SetRequestLog(on bool) {
	s.mu.Lock()
	s.requestLog = on
	s.mu.Unlock()
}

// SetEngine replaces the suggestion engine, used for config reloads.
func (s *Server) SetEngine(engine *suggest.Engine) {
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
}

// Start reads requests until the stream closes. A decode error other
// than EOF is returned since the stream is unrecoverable after it.
func (s *Server) Start() error {
	s.log.Info("serving requests")
	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info("client closed stream")
				return nil
			}
			return fmt.Errorf("decoding request: %w", err)
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := req.Action
	if action == "" {
		action = ActionSuggest
	}

	switch action {
	case ActionSuggest:
		result := s.engine.GetSuggestions(s.snap, req.BaseQuery, req.Query)
		if s.requestLog {
			s.log.Info("suggest", "query", req.Query, "results", len(result.Strings))
		}
		s.respond(Response{ID: req.ID, Status: statusOK, Result: &result})

	case ActionAddUser:
		if req.User == nil {
			s.fail(req.ID, "add_user needs a user payload")
			return
		}
		s.snap.Users.Add(directory.User{
			UserID:    req.User.UserID,
			Email:     req.User.Email,
			FullName:  req.User.FullName,
			AvatarURL: req.User.AvatarURL,
		})
		s.ack(req.ID)

	case ActionAddStream:
		if req.Stream == nil {
			s.fail(req.ID, "add_stream needs a stream payload")
			return
		}
		s.snap.Streams.Add(directory.Stream{
			StreamID: req.Stream.StreamID,
			Name:     req.Stream.Name,
		})
		s.ack(req.ID)

	case ActionAddTopic:
		if req.Topic == nil {
			s.fail(req.ID, "add_topic needs a topic payload")
			return
		}
		s.snap.Topics.Add(req.Topic.StreamID, req.Topic.Name, req.Topic.MessageID)
		s.ack(req.ID)

	case ActionAddHuddle:
		if req.Huddle == nil {
			s.fail(req.ID, "add_huddle needs a huddle payload")
			return
		}
		s.snap.Huddles.Record(req.Huddle.UserIDs, req.Huddle.Timestamp)
		s.ack(req.ID)

	case ActionSetNarrow:
		s.snap.CurrentStream = req.Narrow
		s.ack(req.ID)

	case ActionSetSpectator:
		s.snap.Spectator = req.Spectator
		s.ack(req.ID)

	case ActionReset:
		// The fetcher outlives the snapshot so topic backfill keeps
		// working after a reset.
		fresh := directory.NewSnapshotWithFetcher(s.snap.Self, s.snap.Topics.Fetcher())
		old := s.snap.Topics
		s.snap = fresh
		old.Stop()
		s.ack(req.ID)

	default:
		s.fail(req.ID, fmt.Sprintf("unknown action %q", req.Action))
	}
}

func (s *Server) ack(id uint32) {
	s.respond(Response{ID: id, Status: statusOK})
}

func (s *Server) fail(id uint32, message string) {
	s.log.Warn("request failed", "id", id, "error", message)
	s.respond(Response{ID: id, Status: statusError, Error: message})
}

func (s *Server) respond(resp Response) {
	if err := s.enc.Encode(resp); err != nil {
		s.log.Error("encoding response", "id", resp.ID, "error", err)
	}
}
