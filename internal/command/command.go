// Package command assembles protocol commands from typed arguments.
package command

import (
	"strconv"
	"strings"

	"github.com/AndrewDonelson/typedis/internal/codec"
)

// Args is an option set that renders itself as command tokens.
type Args interface {
	Tokens() []string
}

// Builder accumulates the arguments of one command. It is not safe for
// concurrent use; Build snapshots it into an immutable Command.
type Builder struct {
	name string
	args [][]byte
}

// Of starts a command with the given name.
func Of(name string) *Builder {
	return &Builder{name: name}
}

// Put appends a raw argument.
func (b *Builder) Put(arg []byte) *Builder {
	b.args = append(b.args, arg)
	return b
}

// PutString appends a text argument.
func (b *Builder) PutString(s string) *Builder {
	return b.Put([]byte(s))
}

// PutInt appends a decimal integer argument.
func (b *Builder) PutInt(n int64) *Builder {
	return b.Put(strconv.AppendInt(nil, n, 10))
}

// PutFloat appends a floating point argument. Infinities are written as
// +inf and -inf, the spelling the server accepts for scores.
func (b *Builder) PutFloat(f float64) *Builder {
	return b.PutString(codec.FormatFloat(f, 64))
}

// PutAll appends every argument in order.
func (b *Builder) PutAll(args [][]byte) *Builder {
	b.args = append(b.args, args...)
	return b
}

// PutArgs appends the tokens of an option set. A nil set appends nothing.
func (b *Builder) PutArgs(a Args) *Builder {
	if a == nil {
		return b
	}
	for _, t := range a.Tokens() {
		b.PutString(t)
	}
	return b
}

// PutFlag appends token when cond holds.
func (b *Builder) PutFlag(cond bool, token string) *Builder {
	if cond {
		b.PutString(token)
	}
	return b
}

// Build returns the finished command. Later appends to b do not affect it.
func (b *Builder) Build() Command {
	args := make([][]byte, len(b.args))
	copy(args, b.args)
	return Command{name: b.name, args: args}
}

// Command is a command name plus its ordered arguments.
type Command struct {
	name string
	args [][]byte
}

// Name returns the command name.
func (c Command) Name() string { return c.name }

// Len returns the number of arguments, excluding the name.
func (c Command) Len() int { return len(c.args) }

// Args returns a copy of the argument list.
func (c Command) Args() [][]byte {
	out := make([][]byte, len(c.args))
	for i, a := range c.args {
		out[i] = append([]byte(nil), a...)
	}
	return out
}

// Wire returns the command in the []any form accepted by go-redis, with
// every argument rendered as a string.
func (c Command) Wire() []any {
	out := make([]any, 0, len(c.args)+1)
	out = append(out, c.name)
	for _, a := range c.args {
		out = append(out, string(a))
	}
	return out
}

// AppendWire appends the name and the raw arguments to dst. The appended
// byte slices alias the command and must not be modified.
func (c Command) AppendWire(dst []any) []any {
	dst = append(dst, c.name)
	for _, a := range c.args {
		dst = append(dst, a)
	}
	return dst
}

const maxShownArg = 64

// String renders the command for logs. Long arguments are truncated.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.name)
	for _, a := range c.args {
		sb.WriteByte(' ')
		if len(a) > maxShownArg {
			sb.WriteString(strconv.Quote(string(a[:maxShownArg])))
			sb.WriteString("...")
			continue
		}
		sb.WriteString(strconv.Quote(string(a)))
	}
	return sb.String()
}
