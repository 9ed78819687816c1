package executor

import "github.com/riftcache/riftcache/cache"

// ResponseType names the shape of a Response's payload.
type ResponseType int

const (
	RespOk ResponseType = iota
	RespValue
	RespInteger
	RespArray
	RespArrayWithDepth
	RespKeyInfo
	RespStats
	RespNull
	RespError
)

// KeyDepth pairs a key with its BFS distance from a queried ancestor.
type KeyDepth struct {
	Key   string
	Depth uint64
}

// KeyInfo is the composite record GetInfo returns.
type KeyInfo struct {
	Key           string
	Exists        bool
	Ttl           int64
	Value         *string
	Parent        *string
	ChildrenCount int
}

// Response is a tagged result; only the fields relevant to Type are
// meaningful.
type Response struct {
	Type ResponseType

	Value          string
	Integer        int64
	Array          []string
	ArrayWithDepth []KeyDepth
	Info           KeyInfo
	Stats          cache.Snapshot
	Error          string
}

func ok() Response                { return Response{Type: RespOk} }
func value(v string) Response     { return Response{Type: RespValue, Value: v} }
func integer(i int64) Response    { return Response{Type: RespInteger, Integer: i} }
func array(a []string) Response   { return Response{Type: RespArray, Array: a} }
func null() Response              { return Response{Type: RespNull} }
func errResp(msg string) Response { return Response{Type: RespError, Error: msg} }
func arrayWithDepth(a []KeyDepth) Response {
	return Response{Type: RespArrayWithDepth, ArrayWithDepth: a}
}
func keyInfo(i KeyInfo) Response      { return Response{Type: RespKeyInfo, Info: i} }
func stats(s cache.Snapshot) Response { return Response{Type: RespStats, Stats: s} }
