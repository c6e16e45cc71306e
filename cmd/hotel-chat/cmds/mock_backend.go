package cmds

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/hotel-chat/pkg/mockbackend"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type MockBackendSettings struct {
	Address string `glazed:"address"`
	Script  string `glazed:"script"`
	DelayMs int    `glazed:"delay-ms"`
}

type MockBackendCommand struct {
	*cmds.CommandDescription
}

var _ cmds.BareCommand = &MockBackendCommand{}

func NewMockBackendCommand() (*MockBackendCommand, error) {
	return &MockBackendCommand{
		CommandDescription: cmds.NewCommandDescription(
			"mock-backend",
			cmds.WithShort("Serve a scripted hotel assistant backend"),
			cmds.WithLong(`Serve /ws/chat and answer every client message with a fixed frame sequence.

Without --script the backend echoes the message, announces a find_hotels tool
call, returns four sample hotels and closes with an assistant reply. A script
is a YAML list of frames; "{{message}}" in a frame's content is replaced by
the client message.`),
			cmds.WithFlags(
				fields.New("address", fields.TypeString,
					fields.WithHelp("Listen address"),
					fields.WithDefault(":8080")),
				fields.New("script", fields.TypeString,
					fields.WithHelp("YAML frame script to answer with"),
					fields.WithDefault("")),
				fields.New("delay-ms", fields.TypeInteger,
					fields.WithHelp("Pause before each scripted frame"),
					fields.WithDefault(400)),
			),
		),
	}, nil
}

func (c *MockBackendCommand) Run(ctx context.Context, parsedLayers *values.Values) error {
	s := &MockBackendSettings{}
	if err := parsedLayers.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "init mock-backend settings")
	}
	if s.DelayMs < 0 {
		return errors.Errorf("delay-ms must not be negative, got %d", s.DelayMs)
	}

	script := mockbackend.DefaultScript()
	if s.Script != "" {
		var err error
		script, err = mockbackend.LoadScript(s.Script)
		if err != nil {
			return err
		}
		log.Info().Str("script", s.Script).Int("frames", len(script.Frames)).Msg("loaded frame script")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mockbackend.NewServer(script, mockbackend.WithDelay(time.Duration(s.DelayMs)*time.Millisecond))
	return srv.Run(ctx, s.Address)
}
