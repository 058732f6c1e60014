package aeolus

type (
	// Button is a control element of an interface Group. It is one of Stop,
	// Coupler or Tremul. Ordinal is the 1-based position of the button within
	// its group.
	Button interface {
		Ordinal() int
		isButton()
	}

	// Stop enables a rank. Keyboard, Division and Rank are 1-based ordinals;
	// Rank counts within the division. The label of a stop is not stored: use
	// Instrument.StopLabel.
	Stop struct {
		Index    int
		Keyboard int
		Division int
		Rank     int
	}

	// Coupler links a keyboard to a division.
	Coupler struct {
		Index    int
		Keyboard int
		Division int
		Mnemonic string
		Label    string
	}

	// Tremul toggles the tremulant of a division.
	Tremul struct {
		Index    int
		Division int
		Mnemonic string
		Label    string
	}
)

func (s Stop) Ordinal() int    { return s.Index }
func (c Coupler) Ordinal() int { return c.Index }
func (t Tremul) Ordinal() int  { return t.Index }

func (Stop) isButton()    {}
func (Coupler) isButton() {}
func (Tremul) isButton()  {}
