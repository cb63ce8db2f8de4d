// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"strconv"
	"strings"
	"unicode"
)

type QArg struct {
	a string
}

func (a QArg) String() string {
	return a.a
}

func (a QArg) Int() int {
	r, err := strconv.ParseInt(a.a, 10, 0)
	if err != nil {
		return 0
	}
	return int(r)
}

func (a QArg) Float32() float32 {
	r, err := strconv.ParseFloat(a.a, 32)
	if err != nil {
		return 0
	}
	return float32(r)
}

type Arguments struct {
	// each arg on its own
	args []QArg
	// the trimmed input line
	full string
}

func (c *Arguments) Full() string {
	return c.full
}

func (c *Arguments) Args() []QArg {
	return c.args
}

// Strings returns the arguments as plain strings.
func (c *Arguments) Strings() []string {
	r := make([]string, len(c.args))
	for i, a := range c.args {
		r[i] = a.a
	}
	return r
}

func (c *Arguments) ArgumentString() string {
	// args[0] is the cmd
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].String())
	r = strings.TrimLeftFunc(r, unicode.IsSpace)
	// the result should not start with " or space
	if len(r) > 1 {
		if r[0] == '"' {
			r = strings.Trim(r, "\"\t\n\v\f\r ")
		}
	}
	return r
}

// Parse splits a command line into words. Quoted strings are one word
// without their quotes, everything after // is a comment.
func Parse(s string) (args Arguments) {
	args.full = strings.TrimFunc(s, unicode.IsSpace)
	args.args = []QArg{}

	in := args.full
	for {
		in = strings.TrimLeftFunc(in, unicode.IsSpace)
		switch {
		case in == "", strings.HasPrefix(in, "//"):
			return
		case in[0] == '"':
			end := strings.IndexByte(in[1:], '"')
			if end < 0 {
				// unterminated, take the rest
				args.args = append(args.args, QArg{in[1:]})
				return
			}
			args.args = append(args.args, QArg{in[1 : end+1]})
			in = in[end+2:]
		default:
			end := strings.IndexFunc(in, unicode.IsSpace)
			if end < 0 {
				end = len(in)
			}
			args.args = append(args.args, QArg{in[:end]})
			in = in[end:]
		}
	}
}
