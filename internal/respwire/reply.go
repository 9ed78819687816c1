package respwire

import (
	"fmt"
	"io"
	"strconv"

	"github.com/riftcache/riftcache/executor"
)

// WriteReply encodes resp in RESP2 framing: "+" simple strings, "$"
// bulk strings, ":" integers, "*" arrays, "_" null, "-" errors.
func WriteReply(w io.Writer, resp executor.Response) error {
	switch resp.Type {
	case executor.RespOk:
		return writeSimple(w, "OK")

	case executor.RespValue:
		return writeBulk(w, resp.Value)

	case executor.RespInteger:
		_, err := fmt.Fprintf(w, ":%d\r\n", resp.Integer)
		return err

	case executor.RespArray:
		if err := writeArrayHeader(w, len(resp.Array)); err != nil {
			return err
		}
		for _, item := range resp.Array {
			if err := writeBulk(w, item); err != nil {
				return err
			}
		}
		return nil

	case executor.RespArrayWithDepth:
		if err := writeArrayHeader(w, len(resp.ArrayWithDepth)); err != nil {
			return err
		}
		for _, item := range resp.ArrayWithDepth {
			if err := writeBulk(w, item.Key+":"+strconv.FormatUint(item.Depth, 10)); err != nil {
				return err
			}
		}
		return nil

	case executor.RespKeyInfo:
		return writeBulk(w, formatKeyInfo(resp.Info))

	case executor.RespStats:
		return writeBulk(w, fmt.Sprintf("hits=%d misses=%d sets=%d deletes=%d memory_usage=%d",
			resp.Stats.Hits, resp.Stats.Misses, resp.Stats.Sets, resp.Stats.Deletes, resp.Stats.MemoryUsage))

	case executor.RespNull:
		_, err := io.WriteString(w, "_\r\n")
		return err

	case executor.RespError:
		_, err := fmt.Fprintf(w, "-%s\r\n", sanitizeError(resp.Error))
		return err

	default:
		_, err := fmt.Fprintf(w, "-unknown response type\r\n")
		return err
	}
}

func writeSimple(w io.Writer, s string) error {
	_, err := fmt.Fprintf(w, "+%s\r\n", s)
	return err
}

func writeBulk(w io.Writer, s string) error {
	_, err := fmt.Fprintf(w, "$%d\r\n%s\r\n", len(s), s)
	return err
}

func writeArrayHeader(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "*%d\r\n", n)
	return err
}

func formatKeyInfo(info executor.KeyInfo) string {
	value := "-"
	if info.Value != nil {
		value = *info.Value
	}
	parent := "-"
	if info.Parent != nil {
		parent = *info.Parent
	}
	return fmt.Sprintf("key=%s exists=%t ttl=%d value=%s parent=%s children=%d",
		info.Key, info.Exists, info.Ttl, value, parent, info.ChildrenCount)
}

// sanitizeError strips CR/LF so an error message can never break out
// of the single-line error reply.
func sanitizeError(msg string) string {
	out := make([]rune, 0, len(msg))
	for _, r := range msg {
		if r == '\r' || r == '\n' {
			out = append(out, ' ')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
