package protocol

import (
	"strings"

	"github.com/go-go-golems/hotel-chat/pkg/transcript"
)

// Replay applies script steps to tr the way a live session applies sends
// and inbound frames. It returns the steps that had no transcript effect
// because they were malformed, untyped or of an unknown type. Echoes are
// not reported.
func Replay(steps []Step, tr *transcript.Transcript) []Step {
	var skipped []Step
	for _, st := range steps {
		if st.IsUser() {
			if text := strings.TrimSpace(st.User); text != "" {
				tr.Append(transcript.NewUserRecord(text))
			}
			continue
		}
		if st.Frame == nil {
			skipped = append(skipped, st)
			continue
		}
		c := Classify(*st.Frame)
		switch c.Action {
		case ActionAppend:
			tr.Append(c.Record)
		case ActionIgnore:
			skipped = append(skipped, st)
		}
	}
	return skipped
}
