// Package control encodes the MIDI messages Aeolus understands for switching
// stops, couplers and tremulants, recalling presets and cancelling groups.
//
// Aeolus listens to a single controller (98 by default) on its control
// channel. A button is switched by two messages on that controller: the first
// selects a group and a mode (01mm0ggg), the second selects a button within
// the group (000bbbbb). The mode decides what the button select does: reset
// the group, turn the button off, on, or toggle it.
//
// This package only builds messages; opening ports and sending them is left
// to the caller.
package control

import (
	"errors"
	"fmt"

	"github.com/stops2control/aeolus"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Encoder builds messages for an Aeolus instance listening on Channel
	// (0-based) to controller Param.
	Encoder struct {
		Channel uint8
		Param   uint8
	}

	Mode uint8

	// Address lists the messages that switch one button on and off.
	Address struct {
		Group  int
		Button int
		On     []midi.Message
		Off    []midi.Message
	}
)

const (
	Reset Mode = iota
	Off
	On
	Toggle
)

const (
	DefaultParam = 98
	MaxGroups    = 8
	MaxButtons   = 32
	MaxPresets   = 128
)

var ErrOutOfRange = errors.New("control: value out of range")

func DefaultEncoder() Encoder {
	return Encoder{Channel: 0, Param: DefaultParam}
}

func (m Mode) String() string {
	switch m {
	case Reset:
		return "reset"
	case Off:
		return "off"
	case On:
		return "on"
	case Toggle:
		return "toggle"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// GroupMode selects the group with the given 1-based ordinal and sets the
// mode for the following button selects.
func (e Encoder) GroupMode(group int, mode Mode) (midi.Message, error) {
	if group < 1 || group > MaxGroups {
		return nil, fmt.Errorf("%w: group %d", ErrOutOfRange, group)
	}
	if mode > Toggle {
		return nil, fmt.Errorf("%w: mode %d", ErrOutOfRange, mode)
	}
	value := 0b01<<6 | uint8(mode)<<4 | uint8(group-1)
	return midi.ControlChange(e.Channel, e.Param, value), nil
}

// Select selects the button with the given 1-based ordinal in the current
// group.
func (e Encoder) Select(button int) (midi.Message, error) {
	if button < 1 || button > MaxButtons {
		return nil, fmt.Errorf("%w: button %d", ErrOutOfRange, button)
	}
	return midi.ControlChange(e.Channel, e.Param, uint8(button-1)), nil
}

// Button returns the messages switching a button on or off.
func (e Encoder) Button(group, button int, on bool) ([]midi.Message, error) {
	mode := Off
	if on {
		mode = On
	}
	m, err := e.GroupMode(group, mode)
	if err != nil {
		return nil, err
	}
	b, err := e.Select(button)
	if err != nil {
		return nil, err
	}
	return []midi.Message{m, b}, nil
}

// Preset recalls the preset with the given 1-based number in the current bank.
func (e Encoder) Preset(n int) (midi.Message, error) {
	if n < 1 || n > MaxPresets {
		return nil, fmt.Errorf("%w: preset %d", ErrOutOfRange, n)
	}
	return midi.ProgramChange(e.Channel, uint8(n-1)), nil
}

// Cancel resets the first groups groups, i.e. turns every button off.
func (e Encoder) Cancel(groups int) ([]midi.Message, error) {
	if groups < 0 || groups > MaxGroups {
		return nil, fmt.Errorf("%w: %d groups", ErrOutOfRange, groups)
	}
	ret := make([]midi.Message, 0, groups)
	for g := 1; g <= groups; g++ {
		m, err := e.GroupMode(g, Reset)
		if err != nil {
			return nil, err
		}
		ret = append(ret, m)
	}
	return ret, nil
}

// Table returns the address of every button of the instrument, group by
// group in declaration order.
func (e Encoder) Table(in *aeolus.Instrument) ([]Address, error) {
	ret := make([]Address, 0, in.NumButtons())
	for _, g := range in.Groups {
		for _, b := range g.Buttons {
			on, err := e.Button(g.Index, b.Ordinal(), true)
			if err != nil {
				return nil, fmt.Errorf("group %v: %w", g.Label, err)
			}
			off, err := e.Button(g.Index, b.Ordinal(), false)
			if err != nil {
				return nil, fmt.Errorf("group %v: %w", g.Label, err)
			}
			ret = append(ret, Address{Group: g.Index, Button: b.Ordinal(), On: on, Off: off})
		}
	}
	return ret, nil
}
