package executor

import "github.com/riftcache/riftcache/cache"

// CommandExecutor dispatches Commands to a Cache and packages the
// outcome as a Response. It holds no state beyond the Cache reference,
// so it is safe to share across every adapter goroutine.
type CommandExecutor struct {
	cache *cache.Cache
}

// New builds a CommandExecutor over c.
func New(c *cache.Cache) *CommandExecutor {
	return &CommandExecutor{cache: c}
}

// Execute runs cmd and returns its Response. Read paths (get, exists,
// ttl) never produce RespError; absence is signaled by RespNull or a
// zero/negative sentinel integer, matching the Cache API they wrap.
func (e *CommandExecutor) Execute(cmd Command) Response {
	switch cmd.Type {
	case CmdGet:
		v, found := e.cache.Get(cmd.Key)
		if !found {
			return null()
		}
		return value(v.String())

	case CmdSet:
		ok, err := e.cache.Set(cmd.Key, cmd.Value, cmd.Options)
		if err != nil {
			return errResp(err.Error())
		}
		if !ok {
			return null()
		}
		return Response{Type: RespOk}

	case CmdDel:
		return integer(int64(e.cache.Del(cmd.Keys)))

	case CmdExpire:
		return integer(e.cache.Expire(cmd.Key, cmd.Seconds))

	case CmdTtl:
		return integer(e.cache.Ttl(cmd.Key))

	case CmdPersist:
		return integer(e.cache.Persist(cmd.Key))

	case CmdExists:
		return integer(int64(e.cache.ExistsMulti(cmd.Keys)))

	case CmdPing:
		if cmd.Message != "" {
			return value(cmd.Message)
		}
		return ok()

	case CmdListKeys:
		limit := cmd.Limit
		if limit <= 0 {
			limit = 1 << 30
		}
		return array(e.cache.Keys(cmd.Pattern, limit))

	case CmdFlushAll:
		e.cache.FlushAll()
		return ok()

	case CmdSetParent:
		n, err := e.cache.SetParent(cmd.Key, cmd.Parent)
		if err != nil {
			return errResp(err.Error())
		}
		return integer(n)

	case CmdGetParent:
		p, found := e.cache.Parent(cmd.Key)
		if !found {
			return null()
		}
		return value(p)

	case CmdGetChildren:
		if cmd.Depth > 0 {
			depths := e.cache.ChildrenRecursive(cmd.Parent, cmd.Depth)
			out := make([]KeyDepth, len(depths))
			for i, d := range depths {
				out[i] = KeyDepth{Key: d.Key, Depth: d.Depth}
			}
			return arrayWithDepth(out)
		}
		return array(e.cache.Children(cmd.Parent))

	case CmdGetInfo:
		return keyInfo(e.getInfo(cmd.Key))

	case CmdStats:
		return stats(e.cache.GetStats())

	case CmdRenderMetrics:
		return value(e.cache.Render())

	default:
		return errResp("unknown command")
	}
}

// getInfo composes exists, ttl, get, parent, and the direct children
// count into a single record.
func (e *CommandExecutor) getInfo(key string) KeyInfo {
	info := KeyInfo{Key: key}

	info.Exists = e.cache.Exists(key)
	if !info.Exists {
		info.Ttl = -2
		return info
	}
	info.Ttl = e.cache.Ttl(key)

	v, found := e.cache.Get(key)
	if !found {
		// Removed between the Exists/Ttl checks and here (e.g. a
		// concurrent del or expiry); report what we already gathered.
		info.Exists = false
		return info
	}
	s := v.String()
	info.Value = &s
	if p, ok := e.cache.Parent(key); ok {
		info.Parent = &p
	}
	info.ChildrenCount = len(e.cache.Children(key))
	return info
}
