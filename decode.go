package aeolus

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// DefinitionFile is the name of the directive file inside an instrument
// directory.
const DefinitionFile = "definition"

// Decoder interprets an instrument definition. Rank files are opened through
// FS; a rank named "x.ae0" in the definition is looked up next to the
// instrument directory Dir, i.e. at path.Join(Dir, "..", "x.ae0").
type Decoder struct {
	FS  fs.FS
	Dir string

	// Base, if not empty, is the OS path of the root of FS. It is prepended
	// to the file names recorded in Rank.Filename.
	Base string

	// Label of the instrument; defaults to the base name of Dir.
	Label string

	// Logger receives debug messages about skipped directives. Nil means no
	// logging.
	Logger *zerolog.Logger
}

// LoadOptions tune Load.
type LoadOptions struct {
	Definition string // name of the definition file, DefinitionFile if empty
	Logger     *zerolog.Logger
}

// Load decodes the instrument in directory dir. Rank files are looked up in
// the parent directory of dir.
func Load(dir string, opts LoadOptions) (*Instrument, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve instrument directory %v: %w", dir, err)
	}
	root, name := filepath.Split(abs)
	fsys := os.DirFS(root)
	definition := opts.Definition
	if definition == "" {
		definition = DefinitionFile
	}
	f, err := fsys.Open(path.Join(name, definition))
	if err != nil {
		return nil, fmt.Errorf("could not open instrument definition: %w", err)
	}
	defer f.Close()
	dec := Decoder{FS: fsys, Dir: name, Base: root, Label: name, Logger: opts.Logger}
	return dec.Decode(f)
}

// Decode reads directives from r until an instr/end directive or the end of
// input. On error, no instrument is returned.
func (d *Decoder) Decode(r io.Reader) (*Instrument, error) {
	st := d.newState()
	s := NewScanner(r)
	for {
		line, ok := s.Next()
		if !ok {
			break
		}
		done, err := st.apply(line)
		if err != nil {
			return nil, err
		}
		if done {
			return st.instr, nil
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not read instrument definition: %w", err)
	}
	return st.instr, nil
}

// DecodeLines interprets already tokenized lines.
func (d *Decoder) DecodeLines(lines []Line) (*Instrument, error) {
	st := d.newState()
	for _, line := range lines {
		done, err := st.apply(line)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return st.instr, nil
}

// decodeState is the interpreter state: the instrument built so far and the
// currently open division and group (indices, -1 when none is open).
type decodeState struct {
	d          *Decoder
	log        zerolog.Logger
	instr      *Instrument
	division   int
	group      int
	nextButton int
}

func (d *Decoder) newState() *decodeState {
	label := d.Label
	if label == "" && d.Dir != "" && d.Dir != "." {
		label = path.Base(d.Dir)
	}
	log := zerolog.Nop()
	if d.Logger != nil {
		log = *d.Logger
	}
	return &decodeState{
		d:        d,
		log:      log,
		instr:    &Instrument{Label: label},
		division: -1,
		group:    -1,
	}
}

// apply interprets one line. done is true when the line ends the instrument.
func (s *decodeState) apply(line Line) (done bool, err error) {
	keyword := line.Keyword()
	args := line.Args()
	switch keyword {
	case "manual/new", "pedal/new":
		err = s.newKeyboard(keyword, args)
	case "divis/new":
		err = s.newDivision(args)
	case "divis/end":
		s.division = -1
	case "rank":
		err = s.rank(args)
	case "swell":
		err = s.swell()
	case "group/new":
		err = s.newGroup(args)
	case "group/end":
		s.group = -1
	case "stop":
		err = s.stop(args)
	case "coupler":
		err = s.coupler(args)
	case "tremul":
		err = s.tremul(line.Number, args)
	case "tuning":
		err = s.tuning(args)
	case "instr/end":
		return true, nil
	default:
		s.log.Debug().Int("line", line.Number).Str("keyword", keyword).Msg("skipping directive")
	}
	if err != nil {
		return false, &DirectiveError{Line: line.Number, Keyword: keyword, Err: err}
	}
	return false, nil
}

func (s *decodeState) newKeyboard(keyword string, args []string) error {
	if err := need(args, 1); err != nil {
		return err
	}
	kind := Manual
	if keyword == "pedal/new" {
		kind = Pedal
	}
	s.instr.Keyboards = append(s.instr.Keyboards, Keyboard{
		Kind:  kind,
		Label: args[0],
		Index: len(s.instr.Keyboards) + 1,
	})
	return nil
}

func (s *decodeState) newDivision(args []string) error {
	if err := need(args, 1); err != nil {
		return err
	}
	s.instr.Divisions = append(s.instr.Divisions, Division{
		Label: args[0],
		Index: len(s.instr.Divisions) + 1,
	})
	s.division = len(s.instr.Divisions) - 1
	return nil
}

func (s *decodeState) openDivision() (*Division, error) {
	if s.division < 0 {
		return nil, fmt.Errorf("%w: no division open", ErrScope)
	}
	return &s.instr.Divisions[s.division], nil
}

func (s *decodeState) rank(args []string) error {
	div, err := s.openDivision()
	if err != nil {
		return err
	}
	if err := need(args, 3); err != nil {
		return err
	}
	name := path.Join(s.d.Dir, "..", args[2])
	header, err := ReadRankHeader(s.d.FS, name)
	if err != nil {
		return err
	}
	filename := name
	if s.d.Base != "" {
		filename = filepath.Join(s.d.Base, filepath.FromSlash(name))
	}
	div.Ranks = append(div.Ranks, Rank{
		Index:    len(div.Ranks) + 1,
		Pan:      args[0],
		Delay:    args[1],
		Filename: filename,
		Label:    header.Label,
		Mnemonic: header.Mnemonic,
	})
	return nil
}

func (s *decodeState) swell() error {
	div, err := s.openDivision()
	if err != nil {
		return err
	}
	div.Swell = true
	return nil
}

func (s *decodeState) newGroup(args []string) error {
	if err := need(args, 1); err != nil {
		return err
	}
	s.instr.Groups = append(s.instr.Groups, Group{
		Label: args[0],
		Index: len(s.instr.Groups) + 1,
	})
	s.group = len(s.instr.Groups) - 1
	s.nextButton = 1
	return nil
}

func (s *decodeState) openGroup() (*Group, error) {
	if s.group < 0 {
		return nil, fmt.Errorf("%w: no group open", ErrScope)
	}
	return &s.instr.Groups[s.group], nil
}

func (s *decodeState) addButton(g *Group, b Button) {
	g.Buttons = append(g.Buttons, b)
	s.nextButton++
}

func (s *decodeState) stop(args []string) error {
	g, err := s.openGroup()
	if err != nil {
		return err
	}
	if err := need(args, 3); err != nil {
		return err
	}
	ords, err := ordinals(args[:3])
	if err != nil {
		return err
	}
	if _, err := s.instr.Keyboard(ords[0]); err != nil {
		return err
	}
	if _, err := s.instr.Rank(ords[1], ords[2]); err != nil {
		return err
	}
	s.addButton(g, Stop{Index: s.nextButton, Keyboard: ords[0], Division: ords[1], Rank: ords[2]})
	return nil
}

func (s *decodeState) coupler(args []string) error {
	g, err := s.openGroup()
	if err != nil {
		return err
	}
	if err := need(args, 4); err != nil {
		return err
	}
	ords, err := ordinals(args[:2])
	if err != nil {
		return err
	}
	if _, err := s.instr.Keyboard(ords[0]); err != nil {
		return err
	}
	if _, err := s.instr.Division(ords[1]); err != nil {
		return err
	}
	s.addButton(g, Coupler{Index: s.nextButton, Keyboard: ords[0], Division: ords[1], Mnemonic: args[2], Label: args[3]})
	return nil
}

// tremul outside a group is accepted and ignored, as Aeolus itself does.
func (s *decodeState) tremul(lineNum int, args []string) error {
	if err := need(args, 3); err != nil {
		return err
	}
	ords, err := ordinals(args[:1])
	if err != nil {
		return err
	}
	if _, err := s.instr.Division(ords[0]); err != nil {
		return err
	}
	if s.group < 0 {
		s.log.Debug().Int("line", lineNum).Msg("tremul outside of a group ignored")
		return nil
	}
	g := &s.instr.Groups[s.group]
	s.addButton(g, Tremul{Index: s.nextButton, Division: ords[0], Mnemonic: args[1], Label: args[2]})
	return nil
}

func (s *decodeState) tuning(args []string) error {
	if err := need(args, 2); err != nil {
		return err
	}
	base, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: tuning base %q", ErrSyntax, args[0])
	}
	temperament, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: temperament %q", ErrSyntax, args[1])
	}
	s.instr.Tuning = &Tuning{Base: base, Temperament: temperament}
	return nil
}

func need(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%w: want %d arguments, got %d", ErrSyntax, n, len(args))
	}
	return nil
}

func ordinals(args []string) ([]int, error) {
	ret := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an ordinal", ErrReference, a)
		}
		ret[i] = v
	}
	return ret, nil
}
