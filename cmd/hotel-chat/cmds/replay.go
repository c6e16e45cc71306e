package cmds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/hotel-chat/pkg/protocol"
	"github.com/go-go-golems/hotel-chat/pkg/transcript"
	"github.com/go-go-golems/hotel-chat/pkg/ui"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type ReplaySettings struct {
	File        string `glazed:"file"`
	HotelMarker string `glazed:"hotel-marker"`
	ExpandAll   bool   `glazed:"expand-all"`
	Markdown    bool   `glazed:"markdown"`
}

type ReplayCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = &ReplayCommand{}

func NewReplayCommand() (*ReplayCommand, error) {
	return &ReplayCommand{
		CommandDescription: cmds.NewCommandDescription(
			"replay",
			cmds.WithShort("Render a recorded frame script as a transcript"),
			cmds.WithLong(`Read a frame script and print the transcript a live session would show.

Scripts are JSON Lines (one inbound frame per line, lines starting with ">"
are local user messages, "#" starts a comment) or a YAML list of frames
where {user: ...} entries are local user messages. Use "-" to read stdin.`),
			cmds.WithArguments(
				fields.New("file", fields.TypeString,
					fields.WithHelp("Script file, or - for stdin"),
					fields.WithRequired(true)),
			),
			cmds.WithFlags(
				fields.New("hotel-marker", fields.TypeString,
					fields.WithHelp("Content substring that marks a tool result as a hotel list"),
					fields.WithDefault(ui.DefaultHotelMarker)),
				fields.New("expand-all", fields.TypeBool,
					fields.WithHelp("Show every hotel instead of the first three"),
					fields.WithDefault(false)),
				fields.New("markdown", fields.TypeBool,
					fields.WithHelp("Render assistant replies as markdown"),
					fields.WithDefault(false)),
			),
		),
	}, nil
}

func (c *ReplayCommand) RunIntoWriter(ctx context.Context, parsedLayers *values.Values, w io.Writer) error {
	s := &ReplaySettings{}
	if err := parsedLayers.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "init replay settings")
	}

	data, err := readScript(s.File)
	if err != nil {
		return err
	}

	r := ui.NewRenderer(
		ui.WithMarker(s.HotelMarker),
		ui.WithExpandAll(s.ExpandAll),
		ui.WithMarkdown(s.Markdown),
		ui.WithWidth(ui.TerminalWidth(os.Stdout)),
	)
	out, err := replay(s.File, data, r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func readScript(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, errors.Wrap(err, "read script from stdin")
	}
	data, err := os.ReadFile(name)
	return data, errors.Wrapf(err, "read script %s", name)
}

// replay renders the transcript produced by a script.
func replay(name string, data []byte, r *ui.Renderer) (string, error) {
	steps, err := protocol.DecodeScript(bytes.NewReader(data), protocol.DetectFormat(name, data))
	if err != nil {
		return "", err
	}

	tr := transcript.New()
	for _, st := range protocol.Replay(steps, tr) {
		log.Warn().Int("line", st.Line).Str("frame", string(st.Raw)).Msg("skipping frame without transcript effect")
	}
	return r.RenderTranscript(tr.Records(), ""), nil
}
