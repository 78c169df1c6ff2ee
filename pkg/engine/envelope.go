package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotFoundBody is the body of a NotFound response.
const NotFoundBody = "Not found"

// Request is the envelope handed to a handler. It is serialized as the single
// handler argument.
type Request struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query"`
	Body   string            `json:"body"`
}

// NewRequest builds a request with an upper-cased method and an empty body.
func NewRequest(method, path string, query map[string]string) Request {
	if query == nil {
		query = map[string]string{}
	}
	return Request{Method: strings.ToUpper(method), Path: path, Query: query}
}

// Kind distinguishes response outcomes.
type Kind int

const (
	KindOK Kind = iota
	KindNotFound
	KindError
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindError:
		return "error"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Response is the engine's answer to one call.
type Response struct {
	Kind     Kind
	Body     string
	CallID   string
	Route    string // matched route key, empty when unmatched
	Duration time.Duration
}

// PendingCall is a request plus its single-use reply slot.
type PendingCall struct {
	ID      string
	Request Request
	reply   chan Response
}

func newPendingCall(id string, req Request) *PendingCall {
	return &PendingCall{ID: id, Request: req, reply: make(chan Response, 1)}
}

// CallIDGenerator produces correlation IDs for calls.
type CallIDGenerator interface {
	Generate() string
}

// UUIDv7Generator produces time-ordered UUIDv7 call IDs. Safe for concurrent use.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

type message struct {
	call   *PendingCall
	reload chan reloadResult
}

type reloadResult struct {
	routes int
	err    error
}
