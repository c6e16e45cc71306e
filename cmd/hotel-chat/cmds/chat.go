package cmds

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/hotel-chat/pkg/session"
	"github.com/go-go-golems/hotel-chat/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ChatSettings struct {
	HotelMarker string `glazed:"hotel-marker"`
	Plain       bool   `glazed:"plain"`
	Markdown    bool   `glazed:"markdown"`
}

type ChatCommand struct {
	*cmds.CommandDescription
}

var _ cmds.BareCommand = &ChatCommand{}

func NewChatCommand() (*ChatCommand, error) {
	sessionSection, err := session.NewSettingsSection()
	if err != nil {
		return nil, errors.Wrap(err, "build session section")
	}

	return &ChatCommand{
		CommandDescription: cmds.NewCommandDescription(
			"chat",
			cmds.WithShort("Chat with the hotel assistant"),
			cmds.WithLong(`Open a chat session with the hotel assistant backend.

The full-screen UI is used when stdout is a terminal. With --plain, or when
output is piped, lines are read from stdin and every transcript entry is
printed as it arrives; type :q to quit.

Log output goes to stderr, which the full-screen UI covers. Use --log-file
to keep logs while chatting.`),
			cmds.WithFlags(
				fields.New("hotel-marker", fields.TypeString,
					fields.WithHelp("Content substring that marks a tool result as a hotel list"),
					fields.WithDefault(ui.DefaultHotelMarker)),
				fields.New("plain", fields.TypeBool,
					fields.WithHelp("Use line mode even on a terminal"),
					fields.WithDefault(false)),
				fields.New("markdown", fields.TypeBool,
					fields.WithHelp("Render assistant replies as markdown in the full-screen UI"),
					fields.WithDefault(true)),
			),
			cmds.WithSections(sessionSection),
		),
	}, nil
}

func (c *ChatCommand) Run(ctx context.Context, parsedLayers *values.Values) error {
	s := &ChatSettings{}
	if err := parsedLayers.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "init chat settings")
	}
	ss := &session.Settings{}
	if err := parsedLayers.DecodeSectionInto(session.SettingsSlug, ss); err != nil {
		return errors.Wrap(err, "init session settings")
	}
	cfg, err := ss.Config()
	if err != nil {
		return err
	}

	sess, err := session.New(cfg)
	if err != nil {
		return errors.Wrap(err, "create session")
	}
	defer func() { _ = sess.Close() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("url", cfg.URL).Msg("connecting to chat backend")
	sess.Connect()

	fd := os.Stdout.Fd()
	if s.Plain || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		r := ui.NewRenderer(
			ui.WithMarker(s.HotelMarker),
			ui.WithWidth(ui.TerminalWidth(os.Stdout)),
		)
		return ui.RunLines(ctx, sess, os.Stdin, os.Stdout, r)
	}

	return runTUI(ctx, sess, ui.NewRenderer(ui.WithMarker(s.HotelMarker), ui.WithMarkdown(s.Markdown)))
}

func runTUI(ctx context.Context, sess *session.Session, r *ui.Renderer) error {
	m := ui.NewModel(sess, r)
	defer m.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	eg := errgroup.Group{}
	eg.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return errors.Wrap(err, "run chat ui")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})
	return eg.Wait()
}
