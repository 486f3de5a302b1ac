// Package server speaks a length-free msgpack protocol over a byte
// stream, normally stdin/stdout of the queryserve process. A client
// writes Request values; the server answers each with one Response.
// Suggestion queries and directory updates share the stream, so a chat
// client can push state changes as they happen and query in between.
package server

import (
	"github.com/aloha-chat/queryserve/pkg/suggest"
)

// Actions a Request can carry.
const (
	ActionSuggest      = "suggest"
	ActionAddUser      = "add_user"
	ActionAddStream    = "add_stream"
	ActionAddTopic     = "add_topic"
	ActionAddHuddle    = "add_huddle"
	ActionSetNarrow    = "set_narrow"
	ActionSetSpectator = "set_spectator"
	ActionReset        = "reset"
)

// Request is one client message. Action selects which of the optional
// payload fields apply; an empty Action means ActionSuggest.
type Request struct {
	ID     uint32 `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`

	// suggest
	BaseQuery string `msgpack:"base_query,omitempty"`
	Query     string `msgpack:"query,omitempty"`

	// directory updates
	User      *UserPayload   `msgpack:"user,omitempty"`
	Stream    *StreamPayload `msgpack:"stream,omitempty"`
	Topic     *TopicPayload  `msgpack:"topic,omitempty"`
	Huddle    *HuddlePayload `msgpack:"huddle,omitempty"`
	Narrow    string         `msgpack:"narrow,omitempty"`
	Spectator bool           `msgpack:"spectator,omitempty"`
}

type UserPayload struct {
	UserID    int    `msgpack:"user_id"`
	Email     string `msgpack:"email"`
	FullName  string `msgpack:"full_name"`
	AvatarURL string `msgpack:"avatar_url,omitempty"`
}

type StreamPayload struct {
	StreamID int    `msgpack:"stream_id"`
	Name     string `msgpack:"name"`
}

type TopicPayload struct {
	StreamID  int    `msgpack:"stream_id"`
	Name      string `msgpack:"name"`
	MessageID int    `msgpack:"message_id,omitempty"`
}

type HuddlePayload struct {
	UserIDs   []int `msgpack:"user_ids"`
	Timestamp int64 `msgpack:"timestamp"`
}

// Response answers one Request, matched up by ID. Result is set for
// suggestion queries; update actions just acknowledge.
type Response struct {
	ID     uint32          `msgpack:"id"`
	Status string          `msgpack:"status"`
	Error  string          `msgpack:"error,omitempty"`
	Result *suggest.Result `msgpack:"result,omitempty"`
}

const (
	statusOK    = "ok"
	statusError = "error"
)
