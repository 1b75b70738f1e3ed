package server

import "github.com/amalg/go-battleships/internal/protocol"

// Result is what a single inbound request produces: an optional direct
// reply to the sender, a set of updates keyed by recipient name (the
// sender may be one of the recipients), and
// whether the sender's connection should be torn down afterwards. This
// mirrors the engine's request/response/updates contract (spec §4.4).
type Result struct {
	Response  *protocol.Message
	Updates   map[string][]protocol.Message
	Terminate bool
}

func reply(m protocol.Message) Result {
	return Result{Response: &m}
}

// sendTo appends msgs, in order, to the update queue for the named
// recipient.
func (r *Result) sendTo(name string, msgs ...protocol.Message) {
	if r.Updates == nil {
		r.Updates = make(map[string][]protocol.Message)
	}
	r.Updates[name] = append(r.Updates[name], msgs...)
}
