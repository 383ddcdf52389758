package typedis

import (
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeepTTL passed as a ttl to Set-family helpers retains the key's existing
// expiry.
const KeepTTL = redis.KeepTTL

// SetArgs holds the options of SET. At most one expiry option may be set.
type SetArgs struct {
	EX      time.Duration // relative expiry, whole seconds
	PX      time.Duration // relative expiry, milliseconds
	EXAT    time.Time     // absolute expiry, seconds precision
	PXAT    time.Time     // absolute expiry, milliseconds precision
	KeepTTL bool
	NX      bool // only set if the key does not exist
	XX      bool // only set if the key exists
}

// Expiry returns SetArgs expiring after ttl. Sub-second and fractional
// durations use PX, rounded up to the millisecond, and whole seconds use EX.
// KeepTTL keeps the existing expiry and a non-positive ttl sets none.
func Expiry(ttl time.Duration) SetArgs {
	switch {
	case ttl == KeepTTL:
		return SetArgs{KeepTTL: true}
	case ttl <= 0:
		return SetArgs{}
	case ttl < time.Second || ttl%time.Second != 0:
		return SetArgs{PX: ttl}
	}
	return SetArgs{EX: ttl}
}

// ceilMillis converts d to milliseconds, rounding a fractional millisecond
// up so an expiry is never shorter than requested.
func ceilMillis(d time.Duration) int64 {
	ms := d.Milliseconds()
	if d%time.Millisecond != 0 {
		ms++
	}
	return ms
}

func (a SetArgs) validate() error {
	n := 0
	for _, set := range []bool{a.EX != 0, a.PX != 0, !a.EXAT.IsZero(), !a.PXAT.IsZero(), a.KeepTTL} {
		if set {
			n++
		}
	}
	switch {
	case n > 1:
		return invalidArg("set: at most one of EX, PX, EXAT, PXAT and KEEPTTL may be given")
	case a.EX < 0 || (a.EX > 0 && a.EX < time.Second):
		return invalidArg("set: EX must be at least 1s, got %s", a.EX)
	case a.EX%time.Second != 0:
		return invalidArg("set: EX must be whole seconds, got %s; use PX", a.EX)
	case a.PX < 0 || (a.PX > 0 && a.PX < time.Millisecond):
		return invalidArg("set: PX must be at least 1ms, got %s", a.PX)
	case a.NX && a.XX:
		return invalidArg("set: NX and XX are mutually exclusive")
	}
	return nil
}

// Tokens renders the options in SET grammar order.
func (a SetArgs) Tokens() []string {
	var out []string
	switch {
	case a.EX > 0:
		out = append(out, "EX", strconv.FormatInt(int64(a.EX/time.Second), 10))
	case a.PX > 0:
		out = append(out, "PX", strconv.FormatInt(ceilMillis(a.PX), 10))
	case !a.EXAT.IsZero():
		out = append(out, "EXAT", strconv.FormatInt(a.EXAT.Unix(), 10))
	case !a.PXAT.IsZero():
		out = append(out, "PXAT", strconv.FormatInt(a.PXAT.UnixMilli(), 10))
	case a.KeepTTL:
		out = append(out, "KEEPTTL")
	}
	if a.NX {
		out = append(out, "NX")
	}
	if a.XX {
		out = append(out, "XX")
	}
	return out
}

// ExpireArgs holds the conditions of EXPIRE.
type ExpireArgs struct {
	NX bool // only when the key has no expiry
	XX bool // only when the key has an expiry
	GT bool // only when the new expiry is greater
	LT bool // only when the new expiry is less
}

func (a ExpireArgs) validate() error {
	switch {
	case a.NX && (a.XX || a.GT || a.LT):
		return invalidArg("expire: NX cannot be combined with XX, GT or LT")
	case a.GT && a.LT:
		return invalidArg("expire: GT and LT are mutually exclusive")
	}
	return nil
}

// Tokens renders the conditions.
func (a ExpireArgs) Tokens() []string {
	var out []string
	for _, c := range []struct {
		on  bool
		tok string
	}{{a.NX, "NX"}, {a.XX, "XX"}, {a.GT, "GT"}, {a.LT, "LT"}} {
		if c.on {
			out = append(out, c.tok)
		}
	}
	return out
}

// ScanArgs holds the filters of the SCAN family. Type applies to SCAN only.
type ScanArgs struct {
	Match string
	Count int64
	Type  string
}

func (a ScanArgs) validate(keyed bool) error {
	switch {
	case a.Count < 0:
		return invalidArg("scan: count must not be negative, got %d", a.Count)
	case keyed && a.Type != "":
		return invalidArg("scan: TYPE is only supported by SCAN")
	}
	return nil
}

// Tokens renders the filters.
func (a ScanArgs) Tokens() []string {
	var out []string
	if a.Match != "" {
		out = append(out, "MATCH", a.Match)
	}
	if a.Count > 0 {
		out = append(out, "COUNT", strconv.FormatInt(a.Count, 10))
	}
	if a.Type != "" {
		out = append(out, "TYPE", a.Type)
	}
	return out
}

// ZAddArgs holds the options of ZADD.
type ZAddArgs struct {
	NX bool // only add new members
	XX bool // only update existing members
	GT bool // only update when the new score is greater
	LT bool // only update when the new score is less
	CH bool // count changed members, not only added ones
}

func (a ZAddArgs) validate() error {
	switch {
	case a.NX && (a.XX || a.GT || a.LT):
		return invalidArg("zadd: NX cannot be combined with XX, GT or LT")
	case a.GT && a.LT:
		return invalidArg("zadd: GT and LT are mutually exclusive")
	}
	return nil
}

// Tokens renders the options in ZADD grammar order.
func (a ZAddArgs) Tokens() []string {
	var out []string
	switch {
	case a.NX:
		out = append(out, "NX")
	case a.XX:
		out = append(out, "XX")
	}
	switch {
	case a.GT:
		out = append(out, "GT")
	case a.LT:
		out = append(out, "LT")
	}
	if a.CH {
		out = append(out, "CH")
	}
	return out
}
