package main

import (
	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/cmds/sources"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	hotel_cmds "github.com/go-go-golems/hotel-chat/cmd/hotel-chat/cmds"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hotel-chat",
	Short: "Terminal client for the hotel assistant chat service",
	Long: `hotel-chat talks to a hotel assistant backend over a WebSocket channel.
It reconnects on its own when the channel drops and renders hotel search
results as cards. Use "mock-backend" to run a scripted backend locally.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitLoggerFromCobra(cmd)
	},
}

func main() {
	if err := clay.InitGlazed("hotel-chat", rootCmd); err != nil {
		cobra.CheckErr(err)
	}

	helpSystem := help.NewHelpSystem()
	help_cmd.SetupCobraRootCommand(helpSystem, rootCmd)

	err := registerCommands(rootCmd)
	cobra.CheckErr(err)

	cobra.CheckErr(rootCmd.Execute())
}

func registerCommands(root *cobra.Command) error {
	chat, err := hotel_cmds.NewChatCommand()
	if err != nil {
		return errors.Wrap(err, "create chat command")
	}
	replay, err := hotel_cmds.NewReplayCommand()
	if err != nil {
		return errors.Wrap(err, "create replay command")
	}
	mock, err := hotel_cmds.NewMockBackendCommand()
	if err != nil {
		return errors.Wrap(err, "create mock-backend command")
	}

	for name, c := range map[string]cmds.Command{"chat": chat, "replay": replay, "mock-backend": mock} {
		command, err := cli.BuildCobraCommand(c, cli.WithCobraMiddlewaresFunc(getMiddlewares))
		if err != nil {
			return errors.Wrapf(err, "build %s command", name)
		}
		root.AddCommand(command)
	}
	return nil
}

// getMiddlewares resolves values from flags, then HOTEL_CHAT_* env vars,
// then defaults.
func getMiddlewares(
	_ *values.Values,
	cmd *cobra.Command,
	args []string,
) ([]sources.Middleware, error) {
	return []sources.Middleware{
		sources.FromCobra(cmd),
		sources.FromArgs(args),
		sources.FromEnv("HOTEL_CHAT",
			fields.WithSource("env"),
		),
		sources.FromDefaults(),
	}, nil
}
