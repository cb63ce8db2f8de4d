// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"q3front/conlog"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	CHEAT   flag = 1 << 1
	LATCH   flag = 1 << 2
	ROM     flag = 1 << 6
)

var ErrAlreadyDefined = errors.New("cvar already defined")

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	archive  bool
	cheat    bool
	rom      bool
	user     bool
	modified bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
	id           int
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) Cheat() bool {
	return cv.cheat
}

func (cv *Cvar) UserDefined() bool {
	return cv.user
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

// Modified reports whether the value changed since the last ClearModified.
func (cv *Cvar) Modified() bool {
	return cv.modified
}

func (cv *Cvar) ClearModified() {
	cv.modified = false
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	if s != cv.stringValue {
		cv.modified = true
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 32)
	cv.value = float32(pf)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

// Int returns the value truncated to an integer.
func (cv *Cvar) Int() int {
	return int(cv.value)
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0" && cv.stringValue != ""
}

func Get(name string) (*Cvar, bool) {
	cv, ok := cvarByName[name]
	return cv, ok
}

func GetByID(id int) (*Cvar, error) {
	if id < 0 || id >= len(cvarArray) {
		return nil, errors.Errorf("cvar id %d out of bounds", id)
	}
	return cvarArray[id], nil
}

func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	cv.modified = false
	pos := len(cvarArray)
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	cv.id = pos
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := cvarByName[name]; ok {
		return nil, errors.Wrapf(ErrAlreadyDefined, "can't register variable %s", name)
	}

	cv := create(name, value)

	if flags&ARCHIVE != 0 {
		cv.archive = true
	}
	if flags&CHEAT != 0 {
		cv.cheat = true
	}
	if flags&ROM != 0 {
		cv.rom = true
	}

	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(n)
	}
	return cv
}

// Execute handles console input of the form "name" or "name value".
// It returns false if the first argument is no cvar.
func Execute(args []string) bool {
	if len(args) == 0 {
		return false
	}
	cv, ok := Get(args[0])
	if !ok {
		return false
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\" default: \"%s\"\n", cv.Name(), cv.String(), cv.defaultValue)
		return true
	}
	cv.SetByString(args[1])
	return true
}

// Set parses "name=value" and creates a user cvar if name is unknown.
func Set(assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok || name == "" {
		return errors.Errorf("set: expected name=value, got %q", assignment)
	}
	if cv, ok := cvarByName[name]; ok {
		cv.SetByString(value)
		return nil
	}
	cv := create(name, value)
	cv.user = true
	return nil
}

// List prints all cvars whose names start with prefix.
func List(prefix string) {
	names := make([]string, 0, len(cvarArray))
	for _, cv := range cvarArray {
		if strings.HasPrefix(cv.name, prefix) {
			names = append(names, cv.name)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		v := cvarByName[n]
		a := " "
		if v.Archive() {
			a = "*"
		}
		conlog.Printf("%s %s \"%s\"\n", a, v.Name(), v.String())
	}
	conlog.Printf("%v cvars\n", len(names))
}
