package mockbackend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-go-golems/hotel-chat/pkg/hotels"
	"github.com/go-go-golems/hotel-chat/pkg/protocol"
	"github.com/stretchr/testify/require"
)

func TestDefaultScriptReply(t *testing.T) {
	frames, err := DefaultScript().Reply("Paris in May")
	require.NoError(t, err)
	require.Len(t, frames, 4)

	var types []string
	for _, f := range frames {
		in, err := protocol.DecodeInbound(f)
		require.NoError(t, err)
		types = append(types, in.Type)
	}
	require.Equal(t, []string{"user_message", "tool_start", "tool_result", "ai_message"}, types)

	echo, _ := protocol.DecodeInbound(frames[0])
	require.Equal(t, "Paris in May", echo.Content)
	reply, _ := protocol.DecodeInbound(frames[3])
	require.Contains(t, reply.Content, "**Paris in May**")

	result, _ := protocol.DecodeInbound(frames[2])
	res := hotels.Decode(result.Result)
	require.Equal(t, hotels.StateOK, res.State)
	require.Len(t, res.Hotels, 4)
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- type: tool_start
  name: weather
- type: tool_error
  name: weather
  error: upstream timeout
- type: ai_message
  content: "Sorry, I could not check the weather for {{message}}."
`), 0o600))

	script, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, script.Frames, 3)

	frames, err := script.Reply("Oslo")
	require.NoError(t, err)
	last, err := protocol.DecodeInbound(frames[2])
	require.NoError(t, err)
	require.Equal(t, "Sorry, I could not check the weather for Oslo.", last.Content)

	_, err = LoadScript(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("[]\n"), 0o600))
	_, err = LoadScript(empty)
	require.ErrorContains(t, err, "no frames")
}
