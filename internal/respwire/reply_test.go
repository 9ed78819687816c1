package respwire

import (
	"bytes"
	"testing"

	"github.com/riftcache/riftcache/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReply_Ok(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespOk}))
	assert.Equal(t, "+OK\r\n", buf.String())
}

func TestWriteReply_Value(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespValue, Value: "hi"}))
	assert.Equal(t, "$2\r\nhi\r\n", buf.String())
}

func TestWriteReply_Integer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespInteger, Integer: 42}))
	assert.Equal(t, ":42\r\n", buf.String())
}

func TestWriteReply_Array(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespArray, Array: []string{"a", "bb"}}))
	assert.Equal(t, "*2\r\n$1\r\na\r\n$2\r\nbb\r\n", buf.String())
}

func TestWriteReply_Null(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespNull}))
	assert.Equal(t, "_\r\n", buf.String())
}

func TestWriteReply_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespError, Error: "boom"}))
	assert.Equal(t, "-boom\r\n", buf.String())
}

func TestWriteReply_ErrorStripsNewlines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReply(&buf, executor.Response{Type: executor.RespError, Error: "line1\nline2"}))
	assert.Equal(t, "-line1 line2\r\n", buf.String())
}
