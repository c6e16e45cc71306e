package session

import "github.com/go-go-golems/hotel-chat/pkg/transcript"

// Event is delivered to subscribers. Delivery never blocks the session: a
// subscriber whose buffer is full misses the event and is expected to
// re-read Status and Transcript snapshots.
type Event interface {
	isSessionEvent()
}

type StatusChanged struct {
	Old Status
	New Status
}

type RecordAppended struct {
	Index  int
	Record transcript.Record
}

// TransportError reports a socket level error. It does not change the
// connection state; the close that follows does.
type TransportError struct {
	Err error
}

func (StatusChanged) isSessionEvent()  {}
func (RecordAppended) isSessionEvent() {}
func (TransportError) isSessionEvent() {}
