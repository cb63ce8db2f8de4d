// SPDX-License-Identifier: GPL-2.0-or-later

// Package alias implements console aliases: named command lists that
// are inserted into the command buffer when their name is executed.
package alias

import (
	"sort"
	"strings"

	"q3front/cbuf"
	"q3front/conlog"
)

type Aliases struct {
	aliases map[string]string
}

func New() *Aliases {
	return &Aliases{aliases: make(map[string]string)}
}

func (al *Aliases) list() {
	if len(al.aliases) == 0 {
		conlog.Printf("no alias commands found\n")
		return
	}
	names := make([]string, 0, len(al.aliases))
	for k := range al.aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		conlog.Printf("  %s: %s", k, al.aliases[k])
	}
	conlog.Printf("%v alias command(s)\n", len(al.aliases))
}

func (al *Aliases) set(args []cbuf.QArg) {
	// the parts have '"' already removed
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		parts = append(parts, a.String())
	}
	al.aliases[args[0].String()] = strings.TrimSpace(strings.Join(parts, " ")) + "\n"
}

func (al *Aliases) alias(args []cbuf.QArg) {
	switch len(args) {
	case 0:
		al.list()
	case 1:
		name := args[0].String()
		if v, ok := al.aliases[name]; ok {
			conlog.Printf("  %s: %s", name, v)
		}
	default:
		al.set(args)
	}
}

func (al *Aliases) unalias(args []cbuf.QArg) {
	if len(args) != 1 {
		conlog.Printf("unalias <name> : delete alias\n")
		return
	}
	name := args[0].String()
	if _, ok := al.aliases[name]; ok {
		delete(al.aliases, name)
	} else {
		conlog.Printf("No alias named %s\n", name)
	}
}

func (al *Aliases) Get(name string) (string, bool) {
	a, ok := al.aliases[name]
	return a, ok
}

// Execute returns a command executor for the alias commands and the
// aliases themselves.
func (al *Aliases) Execute() cbuf.Efunc {
	return func(cb *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
		args := a.Args()
		if len(args) == 0 {
			return false, nil
		}
		switch name := args[0].String(); name {
		case "alias":
			al.alias(args[1:])
		case "unalias":
			al.unalias(args[1:])
		case "unaliasall":
			al.aliases = make(map[string]string)
		default:
			v, ok := al.Get(name)
			if !ok {
				return false, nil
			}
			cb.InsertText(v)
		}
		return true, nil
	}
}
