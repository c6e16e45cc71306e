package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-go-golems/hotel-chat/pkg/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// QuitCommand ends line mode.
const QuitCommand = ":q"

// TerminalWidth returns the column count of f, or 0 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// RunLines drives s from line input and prints each appended record. Like
// the TUI input, a line is only submitted while the session can send; lines
// typed earlier wait their turn. It returns when input is exhausted and no
// reply is outstanding, on :q, when the session closes or when ctx is done.
//
// RunLines does not wait for in: a read in flight when it returns stays
// blocked until in yields data, EOF or an error. Callers that keep running
// afterwards should close in to release the reading goroutine.
func RunLines(ctx context.Context, s ChatSession, in io.Reader, out io.Writer, r *Renderer) error {
	logger := log.With().Str("component", "lines").Logger()
	events, unsubscribe := s.Subscribe(256)
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	printed := 0
	for _, rec := range s.Transcript().Records() {
		_, _ = fmt.Fprintln(out, r.RenderRecord(rec, false)+"\n")
		printed++
	}
	label := s.Status().Label()
	_, _ = fmt.Fprintf(out, "· %s\n", label)

	handle := func(ev session.Event) {
		switch e := ev.(type) {
		case session.RecordAppended:
			if e.Index < printed {
				return
			}
			_, _ = fmt.Fprintln(out, r.RenderRecord(e.Record, false)+"\n")
			printed = e.Index + 1
		case session.StatusChanged:
			if l := e.New.Label(); l != label {
				label = l
				_, _ = fmt.Fprintf(out, "· %s\n", label)
			}
		}
	}
	// drain prints whatever is already queued before returning
	drain := func() {
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				handle(ev)
			default:
				return
			}
		}
	}

	var pending []string
	eof := false
	for {
		for len(pending) > 0 && s.Status().CanSend() {
			text := pending[0]
			pending = pending[1:]
			if err := s.Send(text); err != nil {
				switch {
				case errors.Is(err, session.ErrNotConnected), errors.Is(err, session.ErrEmptyMessage):
				case errors.Is(err, session.ErrClosed):
					drain()
					return nil
				default:
					logger.Warn().Err(err).Msg("send failed")
				}
			}
		}
		if eof && len(pending) == 0 && !s.Status().AwaitingReply {
			drain()
			return nil
		}

		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				lines = nil
				eof = true
				if err := <-scanErr; err != nil {
					return errors.Wrap(err, "reading input")
				}
				continue
			}
			line = strings.TrimSpace(line)
			if line == QuitCommand {
				drain()
				return nil
			}
			if line != "" {
				pending = append(pending, line)
			}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			handle(ev)
		}
	}
}
