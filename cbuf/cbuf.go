// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf is the console command buffer. Text is split into
// commands at newlines and at semicolons outside of quotes.
package cbuf

import (
	"github.com/pkg/errors"

	"q3front/conlog"
)

// Efunc handles a command and reports whether it knew it.
type Efunc func(*CommandBuffer, Arguments) (bool, error)

type CommandBuffer struct {
	buf string
	// a wait delays the following commands to the next Execute
	wait      bool
	executors []Efunc
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

// Pending reports whether commands are left for a later Execute.
func (c *CommandBuffer) Pending() bool {
	return len(c.buf) != 0
}

// Execute runs the buffered commands until the buffer is empty or a
// wait command is reached.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
				continue LineLoop
			case ';':
				if quote {
					continue LineLoop
				}
				break LineLoop
			case '\n':
				break LineLoop
			}
		}
		// do not put ';' or '\n' in line
		line := c.buf[:i]
		// but remove this char as well
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if err := c.execute(line); err != nil {
			return errors.Wrapf(err, "executing %q", line)
		}
		if c.wait {
			// wait for the next frame to continue executing
			c.wait = false
			return nil
		}
	}
	return nil
}

func (c *CommandBuffer) execute(s string) error {
	a := Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	if args[0].String() == "wait" {
		c.wait = true
		return nil
	}
	for _, e := range c.executors {
		if ok, err := e(c, a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	conlog.Printf("Unknown command \"%s\"\n", args[0].String())
	return nil
}
