package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const jsonlScript = `
# a short exchange
> find me a hotel in Paris
{"type":"user_message","content":"find me a hotel in Paris"}
{"type":"tool_start","name":"find_hotels"}
{"type":"tool_result","name":"find_hotels","result":{"hotels":[{"name":"A"}]}}
{"content":"missing type"}
{"type":"ai_message","content":"Here you go"}
`

func TestDecodeJSONLScript(t *testing.T) {
	steps, err := DecodeScript(strings.NewReader(jsonlScript), FormatJSONL)
	require.NoError(t, err)
	require.Len(t, steps, 6)

	require.True(t, steps[0].IsUser())
	require.Equal(t, "find me a hotel in Paris", steps[0].User)

	require.NotNil(t, steps[1].Frame)
	require.Equal(t, TypeUserMessage, steps[1].Frame.Type)

	require.Nil(t, steps[4].Frame)
	require.False(t, steps[4].IsUser())

	require.Equal(t, TypeAIMessage, steps[5].Frame.Type)
}

const yamlScript = `
- user: hotels in Rome
- type: tool_start
  name: find_hotels
- type: tool_result
  name: find_hotels
  result:
    hotels:
      - name: Roma
        starRating: 4
- type: ai_message
  content: done
`

func TestDecodeYAMLScript(t *testing.T) {
	steps, err := DecodeScript(strings.NewReader(yamlScript), FormatYAML)
	require.NoError(t, err)
	require.Len(t, steps, 4)
	require.Equal(t, "hotels in Rome", steps[0].User)
	require.Equal(t, TypeToolResult, steps[2].Frame.Type)
	require.JSONEq(t, `{"hotels":[{"name":"Roma","starRating":4}]}`, string(steps[2].Frame.Result))
}

func TestDetectFormat(t *testing.T) {
	require.Equal(t, FormatYAML, DetectFormat("frames.yml", nil))
	require.Equal(t, FormatJSONL, DetectFormat("frames.jsonl", nil))
	require.Equal(t, FormatJSONL, DetectFormat("-", []byte("  {\"type\":\"x\"}")))
	require.Equal(t, FormatJSONL, DetectFormat("-", []byte("> hi")))
	require.Equal(t, FormatYAML, DetectFormat("-", []byte("- type: x")))
}

func TestDecodeFramesRejectsUserEntries(t *testing.T) {
	_, err := DecodeFrames(strings.NewReader("- user: hi\n"))
	require.Error(t, err)

	frames, err := DecodeFrames(strings.NewReader("- type: ai_message\n  content: ok\n"))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, "ok", frames[0].Content)
}
