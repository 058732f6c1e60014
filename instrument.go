package aeolus

import "fmt"

type (
	// Instrument is the decoded form of an Aeolus instrument definition: the
	// keyboards, divisions (with their ranks) and interface groups (with their
	// buttons), each in declaration order. Buttons refer to keyboards,
	// divisions and ranks by their 1-based ordinals, so the Instrument owns
	// every entity and the model has no pointers between entities.
	Instrument struct {
		Label     string
		Tuning    *Tuning `yaml:",omitempty"`
		Keyboards []Keyboard
		Divisions []Division
		Groups    []Group
	}

	// Tuning is the optional base frequency and temperament index given by a
	// tuning directive.
	Tuning struct {
		Base        float64
		Temperament int
	}

	// Keyboard is a manual or the pedal board. Index is its 1-based position
	// among all keyboards.
	Keyboard struct {
		Kind  KeyboardKind
		Label string
		Index int
	}

	// Division is a section of the instrument grouping ranks, e.g. "Great".
	// Swell tells if the division is under expression (a swell box).
	Division struct {
		Label string
		Index int
		Ranks []Rank
		Swell bool `yaml:",omitempty"`
	}

	// Rank is a set of pipes with a uniform timbre. Pan and Delay are kept as
	// they were written in the definition. Label and Mnemonic are read from
	// the header of the rank file found at Filename.
	Rank struct {
		Index    int
		Pan      string
		Delay    string
		Filename string
		Label    string
		Mnemonic string
	}

	// Group is a panel of buttons on the interface. Index is the 1-based
	// position among all groups; it is the group number Aeolus expects in
	// control messages.
	Group struct {
		Label   string
		Index   int
		Buttons []Button
	}

	KeyboardKind int
)

const (
	Manual KeyboardKind = iota
	Pedal
)

func (k KeyboardKind) String() string {
	switch k {
	case Manual:
		return "manual"
	case Pedal:
		return "pedal"
	}
	return fmt.Sprintf("KeyboardKind(%d)", int(k))
}

// Keyboard returns the keyboard with the given 1-based ordinal.
func (in *Instrument) Keyboard(ordinal int) (*Keyboard, error) {
	if ordinal < 1 || ordinal > len(in.Keyboards) {
		return nil, fmt.Errorf("%w: keyboard %d of %d", ErrReference, ordinal, len(in.Keyboards))
	}
	return &in.Keyboards[ordinal-1], nil
}

// Division returns the division with the given 1-based ordinal.
func (in *Instrument) Division(ordinal int) (*Division, error) {
	if ordinal < 1 || ordinal > len(in.Divisions) {
		return nil, fmt.Errorf("%w: division %d of %d", ErrReference, ordinal, len(in.Divisions))
	}
	return &in.Divisions[ordinal-1], nil
}

// Rank returns the rank with ordinal rank inside the division with ordinal
// division.
func (in *Instrument) Rank(division, rank int) (*Rank, error) {
	d, err := in.Division(division)
	if err != nil {
		return nil, err
	}
	return d.Rank(rank)
}

// Rank returns the rank with the given 1-based ordinal within the division.
func (d *Division) Rank(ordinal int) (*Rank, error) {
	if ordinal < 1 || ordinal > len(d.Ranks) {
		return nil, fmt.Errorf("%w: rank %d of %d in division %q", ErrReference, ordinal, len(d.Ranks), d.Label)
	}
	return &d.Ranks[ordinal-1], nil
}

// StopRank returns the rank a stop button controls.
func (in *Instrument) StopRank(s Stop) (*Rank, error) {
	return in.Rank(s.Division, s.Rank)
}

// StopLabel returns the label of a stop button, which is always the label of
// the rank it controls.
func (in *Instrument) StopLabel(s Stop) (string, error) {
	r, err := in.StopRank(s)
	if err != nil {
		return "", err
	}
	return r.Label, nil
}

// NumButtons returns the total number of buttons in all groups.
func (in *Instrument) NumButtons() int {
	ret := 0
	for _, g := range in.Groups {
		ret += len(g.Buttons)
	}
	return ret
}
