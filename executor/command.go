// Package executor mediates between wire protocols (HTTP/JSON, the resp
// line protocol) and the cache engine: it accepts protocol-agnostic
// Command values and returns protocol-agnostic Response values, holding
// no state beyond a reference to the Cache.
package executor

import "github.com/riftcache/riftcache/cache"

// CommandType names one of the operations CommandExecutor dispatches.
type CommandType int

const (
	CmdGet CommandType = iota
	CmdSet
	CmdDel
	CmdExpire
	CmdTtl
	CmdPersist
	CmdExists
	CmdPing
	CmdListKeys
	CmdFlushAll
	CmdSetParent
	CmdGetParent
	CmdGetChildren
	CmdGetInfo
	CmdStats
	CmdRenderMetrics
)

// Command is a tagged request; only the fields relevant to Type are
// read by Execute.
type Command struct {
	Type CommandType

	Key     string
	Keys    []string
	Value   cache.Value
	Options cache.SetOptions
	Seconds uint64
	Message string
	Pattern string
	Limit   int
	Parent  string
	Depth   int
}
