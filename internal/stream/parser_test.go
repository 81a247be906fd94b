package stream

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

func dataLine(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`, content) + "\n"
}

// feedAll feeds chunks in order, flushes, and returns every update.
func feedAll(t *testing.T, chunks ...string) ([]Update, error) {
	t.Helper()
	p := NewParser()
	var all []Update
	for _, c := range chunks {
		ups, err := p.Feed([]byte(c))
		all = append(all, ups...)
		if err != nil {
			return all, err
		}
	}
	ups, err := p.Flush()
	return append(all, ups...), err
}

func TestParser_SplitPayloadScenario(t *testing.T) {
	p := NewParser()

	ups, err := p.Feed([]byte(`data: {"choices":[{"delta":{"content":"Hel`))
	require.NoError(t, err)
	assert.Empty(t, ups)

	ups, err = p.Feed([]byte("lo\"}}]}\n\ndata: [DONE]\n"))
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, Update{Kind: AppendMessage, Content: "Hello"}, ups[0])
	assert.True(t, p.Done())

	ups, err = p.Feed([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, ups)

	ups, err = p.Flush()
	require.NoError(t, err)
	assert.Empty(t, ups)
	assert.Equal(t, "Hello", p.Content())
}

func TestParser_ReplaceNotAppend(t *testing.T) {
	ups, err := feedAll(t, dataLine("a")+dataLine("b")+dataLine("c"))
	require.NoError(t, err)

	assert.Equal(t, []Update{
		{Kind: AppendMessage, Content: "a"},
		{Kind: ReplaceLastContent, Content: "ab"},
		{Kind: ReplaceLastContent, Content: "abc"},
	}, ups)
}

func TestParser_ProcessesEveryLineInChunk(t *testing.T) {
	p := NewParser()
	ups, err := p.Feed([]byte(dataLine("one") + dataLine(" two") + dataLine(" three")))
	require.NoError(t, err)
	require.Len(t, ups, 3)
	assert.Equal(t, "one two three", ups[2].Content)
}

func TestParser_ChunkBoundaryIndependence(t *testing.T) {
	stream := ": ping\n" +
		dataLine("Grüße ") +
		"\r\n" +
		dataLine("世界 ") +
		"data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\r\n" +
		dataLine("🎉 done") +
		"data: [DONE]\n" +
		dataLine("ignored")

	want, err := feedAll(t, stream)
	require.NoError(t, err)
	require.NotEmpty(t, want)
	assert.Equal(t, "Grüße 世界 🎉 done", want[len(want)-1].Content)

	for cut := 0; cut <= len(stream); cut++ {
		got, err := feedAll(t, stream[:cut], stream[cut:])
		require.NoError(t, err, "cut at %d", cut)
		assert.Equal(t, want, got, "cut at %d", cut)
	}

	bytewise := make([]string, 0, len(stream))
	for i := 0; i < len(stream); i++ {
		bytewise = append(bytewise, stream[i:i+1])
	}
	got, err := feedAll(t, bytewise...)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParser_IgnoredFramesDoNotChangeOutput(t *testing.T) {
	clean := dataLine("x") + dataLine("y") + "data: [DONE]\n"
	noisy := "\n: comment\n" + dataLine("x") + "event: delta\nid: 7\n\n" + "retry: 10\n" + dataLine("y") + ":\n" + "data: [DONE]\n"

	want, err := feedAll(t, clean)
	require.NoError(t, err)
	got, err := feedAll(t, noisy)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParser_DoneStopsBufferedLines(t *testing.T) {
	p := NewParser()
	ups, err := p.Feed([]byte(dataLine("A") + "data: [DONE]\n" + dataLine("B")))
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "A", ups[0].Content)
	assert.True(t, p.Done())

	ups, err = p.Feed([]byte(dataLine("C")))
	require.NoError(t, err)
	assert.Empty(t, ups)

	ups, err = p.Flush()
	require.NoError(t, err)
	assert.Empty(t, ups)
	assert.Equal(t, "A", p.Content())
}

func TestParser_DoneDuringFlush(t *testing.T) {
	ups, err := feedAll(t, dataLine("A")+"data: [DONE]")
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "A", ups[0].Content)

	ups, err = feedAll(t, dataLine("A")+"data: {bad\n"+"data: [DONE]\n"+dataLine("B"))
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "A", ups[0].Content)
}

func TestParser_FlushCompletesTrailingLine(t *testing.T) {
	p := NewParser()
	ups, err := p.Feed([]byte(dataLine("a") + strings.TrimSuffix(dataLine("b"), "\n")))
	require.NoError(t, err)
	require.Len(t, ups, 1)

	ups, err = p.Flush()
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, Update{Kind: ReplaceLastContent, Content: "ab"}, ups[0])
	assert.True(t, p.Done())
}

func TestParser_CorruptLineStallsUntilFlush(t *testing.T) {
	p := NewParser()

	ups, err := p.Feed([]byte(dataLine("before") + "data: {not json}\n" + dataLine(" after")))
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "before", ups[0].Content)

	ups, err = p.Feed([]byte(dataLine(" more")))
	require.NoError(t, err)
	assert.Empty(t, ups, "lines behind a held line are not extracted")

	ups, err = p.Flush()
	require.NoError(t, err)
	assert.Equal(t, []Update{
		{Kind: ReplaceLastContent, Content: "before after"},
		{Kind: ReplaceLastContent, Content: "before after more"},
	}, ups)
}

func TestParser_CorruptTrailingLineDropped(t *testing.T) {
	ups, err := feedAll(t, dataLine("ok")+`data: {"choices":[{"delta":{"content":"tru`)
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "ok", ups[0].Content)
}

func TestParser_UpstreamError(t *testing.T) {
	p := NewParser()
	ups, err := p.Feed([]byte(dataLine("partial") + `data: {"error":{"message":"provider failed"}}` + "\n" + dataLine("never")))

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "provider failed", upstream.Message)
	require.Len(t, ups, 1)
	assert.Equal(t, "partial", ups[0].Content)
	assert.True(t, p.Done())

	ups, err = p.Flush()
	require.NoError(t, err)
	assert.Empty(t, ups)
}

func TestParser_InvalidUTF8Replaced(t *testing.T) {
	ups, err := feedAll(t, "data: {\"choices\":[{\"delta\":{\"content\":\"a\xffb\"}}]}\n")
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "a\uFFFDb", ups[0].Content)
}

func TestParser_NoContentNoUpdates(t *testing.T) {
	ups, err := feedAll(t, "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n"+"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n")
	require.NoError(t, err)
	assert.Empty(t, ups)
}

func TestUpdateKind_String(t *testing.T) {
	assert.Equal(t, "append", AppendMessage.String())
	assert.Equal(t, "replace", ReplaceLastContent.String())
	assert.Equal(t, "unknown", UpdateKind(0).String())
	assert.Equal(t, "data", FrameData.String())
}
