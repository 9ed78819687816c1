// Package respwire implements the line-oriented resp protocol: one
// command per line, RESP2-framed replies, spoken over a plain TCP
// connection.
package respwire

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/riftcache/riftcache/cache"
	"github.com/riftcache/riftcache/executor"
)

// ParseCommand tokenizes line and builds the executor.Command it
// names. The first token is matched case-insensitively against the
// command table; everything after it is positional, except SET's
// trailing TTL/PARENT/NX/XX modifiers which may appear in any order.
func ParseCommand(line string) (executor.Command, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return executor.Command{}, err
	}
	if len(tokens) == 0 {
		return executor.Command{}, errors.New("empty command")
	}

	name := strings.ToUpper(tokens[0])
	args := tokens[1:]

	switch name {
	case "GET":
		if len(args) != 1 {
			return executor.Command{}, errors.New("GET requires exactly one key")
		}
		return executor.Command{Type: executor.CmdGet, Key: args[0]}, nil

	case "SET":
		return parseSet(args)

	case "DEL":
		if len(args) == 0 {
			return executor.Command{}, errors.New("DEL requires at least one key")
		}
		return executor.Command{Type: executor.CmdDel, Keys: args}, nil

	case "EXPIRE":
		if len(args) != 2 {
			return executor.Command{}, errors.New("EXPIRE requires a key and a ttl in seconds")
		}
		seconds, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return executor.Command{}, errors.Wrap(err, "invalid EXPIRE seconds")
		}
		return executor.Command{Type: executor.CmdExpire, Key: args[0], Seconds: seconds}, nil

	case "TTL":
		if len(args) != 1 {
			return executor.Command{}, errors.New("TTL requires exactly one key")
		}
		return executor.Command{Type: executor.CmdTtl, Key: args[0]}, nil

	case "PERSIST":
		if len(args) != 1 {
			return executor.Command{}, errors.New("PERSIST requires exactly one key")
		}
		return executor.Command{Type: executor.CmdPersist, Key: args[0]}, nil

	case "EXISTS":
		if len(args) == 0 {
			return executor.Command{}, errors.New("EXISTS requires at least one key")
		}
		return executor.Command{Type: executor.CmdExists, Keys: args}, nil

	case "PING":
		msg := ""
		if len(args) > 0 {
			msg = strings.Join(args, " ")
		}
		return executor.Command{Type: executor.CmdPing, Message: msg}, nil

	case "KEYS":
		if len(args) == 0 {
			return executor.Command{}, errors.New("KEYS requires a pattern")
		}
		limit := 0
		if len(args) > 1 {
			parsed, err := strconv.Atoi(args[1])
			if err != nil {
				return executor.Command{}, errors.Wrap(err, "invalid KEYS limit")
			}
			limit = parsed
		}
		return executor.Command{Type: executor.CmdListKeys, Pattern: args[0], Limit: limit}, nil

	case "FLUSHALL":
		return executor.Command{Type: executor.CmdFlushAll}, nil

	case "SETPARENT":
		if len(args) != 2 {
			return executor.Command{}, errors.New("SETPARENT requires a key and a parent")
		}
		return executor.Command{Type: executor.CmdSetParent, Key: args[0], Parent: args[1]}, nil

	case "GETPARENT":
		if len(args) != 1 {
			return executor.Command{}, errors.New("GETPARENT requires exactly one key")
		}
		return executor.Command{Type: executor.CmdGetParent, Key: args[0]}, nil

	case "CHILDREN":
		if len(args) == 0 {
			return executor.Command{}, errors.New("CHILDREN requires a parent key")
		}
		depth := 0
		if len(args) > 1 {
			parsed, err := strconv.Atoi(args[1])
			if err != nil {
				return executor.Command{}, errors.Wrap(err, "invalid CHILDREN depth")
			}
			depth = parsed
		}
		return executor.Command{Type: executor.CmdGetChildren, Parent: args[0], Depth: depth}, nil

	case "INFO":
		if len(args) != 1 {
			return executor.Command{}, errors.New("INFO requires exactly one key")
		}
		return executor.Command{Type: executor.CmdGetInfo, Key: args[0]}, nil

	default:
		return executor.Command{}, errors.Errorf("unknown command %q", tokens[0])
	}
}

func parseSet(args []string) (executor.Command, error) {
	if len(args) < 2 {
		return executor.Command{}, errors.New("SET requires a key and a value")
	}

	key, val := args[0], args[1]
	opts := cache.SetOptions{}
	rest := args[2:]

	for i := 0; i < len(rest); i++ {
		switch strings.ToUpper(rest[i]) {
		case "TTL":
			if i+1 >= len(rest) {
				return executor.Command{}, errors.New("TTL modifier requires a value")
			}
			seconds, err := strconv.ParseUint(rest[i+1], 10, 64)
			if err != nil {
				return executor.Command{}, errors.Wrap(err, "invalid TTL seconds")
			}
			d := time.Duration(seconds) * time.Second
			opts.Ttl = &d
			i++
		case "PARENT":
			if i+1 >= len(rest) {
				return executor.Command{}, errors.New("PARENT modifier requires a key")
			}
			parent := rest[i+1]
			opts.Parent = &parent
			i++
		case "NX":
			opts.Nx = true
		case "XX":
			opts.Xx = true
		default:
			return executor.Command{}, errors.Errorf("unknown SET modifier %q", rest[i])
		}
	}

	return executor.Command{Type: executor.CmdSet, Key: key, Value: cache.NewString(val), Options: opts}, nil
}
