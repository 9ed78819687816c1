package respwire

import (
	"testing"

	"github.com/riftcache/riftcache/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_Get(t *testing.T) {
	cmd, err := ParseCommand("GET foo")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdGet, cmd.Type)
	assert.Equal(t, "foo", cmd.Key)
}

func TestParseCommand_SetWithModifiers(t *testing.T) {
	cmd, err := ParseCommand(`set greeting "hello world" TTL 60 PARENT root NX`)
	require.NoError(t, err)
	assert.Equal(t, executor.CmdSet, cmd.Type)
	assert.Equal(t, "greeting", cmd.Key)
	assert.Equal(t, "hello world", cmd.Value.String())
	require.NotNil(t, cmd.Options.Ttl)
	assert.Equal(t, int64(60), int64(cmd.Options.Ttl.Seconds()))
	require.NotNil(t, cmd.Options.Parent)
	assert.Equal(t, "root", *cmd.Options.Parent)
	assert.True(t, cmd.Options.Nx)
	assert.False(t, cmd.Options.Xx)
}

func TestParseCommand_SetModifiersAnyOrder(t *testing.T) {
	cmd, err := ParseCommand("SET a 1 XX PARENT p TTL 10")
	require.NoError(t, err)
	assert.True(t, cmd.Options.Xx)
	require.NotNil(t, cmd.Options.Parent)
	assert.Equal(t, "p", *cmd.Options.Parent)
	require.NotNil(t, cmd.Options.Ttl)
}

func TestParseCommand_DelMultiple(t *testing.T) {
	cmd, err := ParseCommand("DEL a b c")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdDel, cmd.Type)
	assert.Equal(t, []string{"a", "b", "c"}, cmd.Keys)
}

func TestParseCommand_ExpireInvalidSeconds(t *testing.T) {
	_, err := ParseCommand("EXPIRE a notanumber")
	assert.Error(t, err)
}

func TestParseCommand_PingWithAndWithoutMessage(t *testing.T) {
	cmd, err := ParseCommand("PING")
	require.NoError(t, err)
	assert.Equal(t, "", cmd.Message)

	cmd, err = ParseCommand("PING hello there")
	require.NoError(t, err)
	assert.Equal(t, "hello there", cmd.Message)
}

func TestParseCommand_KeysWithLimit(t *testing.T) {
	cmd, err := ParseCommand("KEYS user:* 5")
	require.NoError(t, err)
	assert.Equal(t, "user:*", cmd.Pattern)
	assert.Equal(t, 5, cmd.Limit)
}

func TestParseCommand_SetParentGetParentChildren(t *testing.T) {
	cmd, err := ParseCommand("SETPARENT child parent")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdSetParent, cmd.Type)
	assert.Equal(t, "child", cmd.Key)
	assert.Equal(t, "parent", cmd.Parent)

	cmd, err = ParseCommand("GETPARENT child")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdGetParent, cmd.Type)

	cmd, err = ParseCommand("CHILDREN parent 3")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdGetChildren, cmd.Type)
	assert.Equal(t, 3, cmd.Depth)
}

func TestParseCommand_UnknownCommand(t *testing.T) {
	_, err := ParseCommand("BOGUS a b")
	assert.Error(t, err)
}

func TestParseCommand_EmptyLine(t *testing.T) {
	_, err := ParseCommand("")
	assert.Error(t, err)
}

func TestParseCommand_UnterminatedQuote(t *testing.T) {
	_, err := ParseCommand(`SET a "unterminated`)
	assert.Error(t, err)
}

func TestParseCommand_FlushAllAndInfo(t *testing.T) {
	cmd, err := ParseCommand("FLUSHALL")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdFlushAll, cmd.Type)

	cmd, err = ParseCommand("INFO a")
	require.NoError(t, err)
	assert.Equal(t, executor.CmdGetInfo, cmd.Type)
	assert.Equal(t, "a", cmd.Key)
}
