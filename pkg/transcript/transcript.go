package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the ordered, append-only message history of one session.
// Insertion order is the timeline; nothing is reordered, deduplicated,
// mutated or removed once appended.
type Transcript struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
}

func New() *Transcript {
	return &Transcript{now: time.Now}
}

// Append stores a copy of rec and returns its index together with the stored
// record (ID and CreatedAt filled in when missing).
func (t *Transcript) Append(rec Record) (int, Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = t.now()
	}
	if rec.Data != nil {
		rec.Data = append([]byte(nil), rec.Data...)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, rec)
	return len(t.records) - 1, rec
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Records returns a snapshot of the transcript.
func (t *Transcript) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ret := make([]Record, len(t.records))
	copy(ret, t.records)
	return ret
}

func (t *Transcript) At(i int) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.records) {
		return Record{}, false
	}
	return t.records[i], true
}

// Last returns the most recent record with the given role.
func (t *Transcript) Last(role Role) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.records) - 1; i >= 0; i-- {
		if t.records[i].Role == role {
			return t.records[i], true
		}
	}
	return Record{}, false
}
