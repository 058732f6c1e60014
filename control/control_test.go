package control_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stops2control/aeolus"
	"github.com/stops2control/aeolus/control"
	"gitlab.com/gomidi/midi/v2"
)

func TestGroupMode(t *testing.T) {
	tests := []struct {
		group int
		mode  control.Mode
		value uint8
	}{
		{1, control.Reset, 0b01000000},
		{1, control.Off, 0b01010000},
		{3, control.On, 0b01100010},
		{8, control.Toggle, 0b01110111},
	}
	e := control.DefaultEncoder()
	for _, tt := range tests {
		msg, err := e.GroupMode(tt.group, tt.mode)
		if err != nil {
			t.Fatalf("GroupMode(%d, %v) failed: %v", tt.group, tt.mode, err)
		}
		var ch, cc, val uint8
		if !msg.GetControlChange(&ch, &cc, &val) {
			t.Fatalf("GroupMode(%d, %v) is not a control change: %v", tt.group, tt.mode, msg)
		}
		if ch != 0 || cc != 98 || val != tt.value {
			t.Fatalf("GroupMode(%d, %v) = ch %d cc %d value %08b, expected value %08b", tt.group, tt.mode, ch, cc, val, tt.value)
		}
	}
}

func TestButton(t *testing.T) {
	e := control.Encoder{Channel: 2, Param: 98}
	msgs, err := e.Button(2, 5, true)
	if err != nil {
		t.Fatalf("Button failed: %v", err)
	}
	want := [][]byte{{0xB2, 98, 0b01100001}, {0xB2, 98, 4}}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i := range want {
		if !bytes.Equal(msgs[i], want[i]) {
			t.Fatalf("message %d: got % x, expected % x", i, []byte(msgs[i]), want[i])
		}
	}
}

func TestOutOfRange(t *testing.T) {
	e := control.DefaultEncoder()
	if _, err := e.GroupMode(0, control.On); !errors.Is(err, control.ErrOutOfRange) {
		t.Fatalf("group 0: expected ErrOutOfRange, got %v", err)
	}
	if _, err := e.GroupMode(9, control.On); !errors.Is(err, control.ErrOutOfRange) {
		t.Fatalf("group 9: expected ErrOutOfRange, got %v", err)
	}
	if _, err := e.Select(33); !errors.Is(err, control.ErrOutOfRange) {
		t.Fatalf("button 33: expected ErrOutOfRange, got %v", err)
	}
	if _, err := e.Preset(0); !errors.Is(err, control.ErrOutOfRange) {
		t.Fatalf("preset 0: expected ErrOutOfRange, got %v", err)
	}
}

func TestPresetAndCancel(t *testing.T) {
	e := control.DefaultEncoder()
	msg, err := e.Preset(3)
	if err != nil {
		t.Fatalf("Preset failed: %v", err)
	}
	var ch, program uint8
	if !msg.GetProgramChange(&ch, &program) || program != 2 {
		t.Fatalf("expected program change 2, got %v", msg)
	}
	msgs, err := e.Cancel(3)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	for i, m := range msgs {
		var cc, val uint8
		if !m.GetControlChange(&ch, &cc, &val) || val != 0b01000000|uint8(i) {
			t.Fatalf("cancel message %d: %v", i, m)
		}
	}
}

func TestTable(t *testing.T) {
	in := &aeolus.Instrument{
		Groups: []aeolus.Group{
			{Label: "A", Index: 1, Buttons: []aeolus.Button{aeolus.Stop{Index: 1}, aeolus.Tremul{Index: 2}}},
			{Label: "B", Index: 2, Buttons: []aeolus.Button{aeolus.Coupler{Index: 1}}},
		},
	}
	table, err := control.DefaultEncoder().Table(in)
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 addresses, got %d", len(table))
	}
	last := table[2]
	if last.Group != 2 || last.Button != 1 {
		t.Fatalf("unexpected address %+v", last)
	}
	if !bytes.Equal(last.Off[0], midi.ControlChange(0, 98, 0b01010001)) {
		t.Fatalf("unexpected off message % x", []byte(last.Off[0]))
	}
}

func TestTableTooManyButtons(t *testing.T) {
	g := aeolus.Group{Label: "Big", Index: 1}
	for i := 1; i <= control.MaxButtons+1; i++ {
		g.Buttons = append(g.Buttons, aeolus.Stop{Index: i})
	}
	in := &aeolus.Instrument{Groups: []aeolus.Group{g}}
	if _, err := control.DefaultEncoder().Table(in); !errors.Is(err, control.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
