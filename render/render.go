// Package render turns a decoded instrument into documents for consumers
// such as Control interface generators: YAML, JSON, or the output of text
// templates.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig"
	"gitlab.com/gomidi/midi/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/stops2control/aeolus"
	"github.com/stops2control/aeolus/control"
)

type (
	// Document is the instrument with every reference resolved: buttons
	// carry the labels of the keyboards, divisions and ranks they refer to.
	Document struct {
		Instrument string         `yaml:"instrument" json:"instrument"`
		Tuning     *aeolus.Tuning `yaml:"tuning,omitempty" json:"tuning,omitempty"`
		Keyboards  []Keyboard     `yaml:"keyboards" json:"keyboards"`
		Divisions  []Division     `yaml:"divisions" json:"divisions"`
		Groups     []Group        `yaml:"groups" json:"groups"`
	}

	Keyboard struct {
		Index int    `yaml:"index" json:"index"`
		Type  string `yaml:"type" json:"type"`
		Label string `yaml:"label" json:"label"`
	}

	Division struct {
		Index int    `yaml:"index" json:"index"`
		Label string `yaml:"label" json:"label"`
		Swell bool   `yaml:"swell" json:"swell"`
		Ranks []Rank `yaml:"ranks" json:"ranks"`
	}

	Rank struct {
		Index    int    `yaml:"index" json:"index"`
		Pan      string `yaml:"pan" json:"pan"`
		Delay    string `yaml:"delay" json:"delay"`
		Filename string `yaml:"filename" json:"filename"`
		Label    string `yaml:"label" json:"label"`
		Mnemonic string `yaml:"mnemonic" json:"mnemonic"`
	}

	Group struct {
		Index   int      `yaml:"index" json:"index"`
		Label   string   `yaml:"label" json:"label"`
		Buttons []Button `yaml:"buttons" json:"buttons"`
	}

	// Button flattens the three button kinds; Type is "stop", "coupler" or
	// "tremul". On and Off hold the control messages as hex bytes when the
	// document was built with an encoder.
	Button struct {
		Index         int      `yaml:"index" json:"index"`
		Type          string   `yaml:"type" json:"type"`
		Keyboard      int      `yaml:"keyboard,omitempty" json:"keyboard,omitempty"`
		KeyboardLabel string   `yaml:"keyboard_label,omitempty" json:"keyboard_label,omitempty"`
		Division      int      `yaml:"division" json:"division"`
		DivisionLabel string   `yaml:"division_label" json:"division_label"`
		Rank          int      `yaml:"rank,omitempty" json:"rank,omitempty"`
		Label         string   `yaml:"label" json:"label"`
		Mnemonic      string   `yaml:"mnemonic" json:"mnemonic"`
		On            []string `yaml:"on,omitempty,flow" json:"on,omitempty"`
		Off           []string `yaml:"off,omitempty,flow" json:"off,omitempty"`
	}

	// Renderer executes a set of text templates on a Document.
	Renderer struct {
		Template *template.Template
		Names    []string
	}
)

//go:embed templates/*
var templateFS embed.FS

// NewDocument resolves the references of in. If enc is not nil, every button
// also gets the control messages that switch it on and off.
func NewDocument(in *aeolus.Instrument, enc *control.Encoder) (*Document, error) {
	doc := &Document{Instrument: in.Label, Tuning: in.Tuning}
	for _, kb := range in.Keyboards {
		doc.Keyboards = append(doc.Keyboards, Keyboard{Index: kb.Index, Type: kb.Kind.String(), Label: kb.Label})
	}
	for _, d := range in.Divisions {
		div := Division{Index: d.Index, Label: d.Label, Swell: d.Swell}
		for _, r := range d.Ranks {
			div.Ranks = append(div.Ranks, Rank(r))
		}
		doc.Divisions = append(doc.Divisions, div)
	}
	for _, g := range in.Groups {
		group := Group{Index: g.Index, Label: g.Label}
		for _, b := range g.Buttons {
			button, err := newButton(in, b)
			if err != nil {
				return nil, fmt.Errorf("group %v button %d: %w", g.Label, b.Ordinal(), err)
			}
			if enc != nil {
				on, err := enc.Button(g.Index, b.Ordinal(), true)
				if err != nil {
					return nil, fmt.Errorf("group %v button %d: %w", g.Label, b.Ordinal(), err)
				}
				off, err := enc.Button(g.Index, b.Ordinal(), false)
				if err != nil {
					return nil, fmt.Errorf("group %v button %d: %w", g.Label, b.Ordinal(), err)
				}
				button.On, button.Off = hexMessages(on), hexMessages(off)
			}
			group.Buttons = append(group.Buttons, button)
		}
		doc.Groups = append(doc.Groups, group)
	}
	return doc, nil
}

func newButton(in *aeolus.Instrument, b aeolus.Button) (Button, error) {
	ret := Button{Index: b.Ordinal()}
	var keyboard, division int
	switch b := b.(type) {
	case aeolus.Stop:
		rank, err := in.StopRank(b)
		if err != nil {
			return Button{}, err
		}
		ret.Type = "stop"
		ret.Rank = b.Rank
		ret.Label = rank.Label
		ret.Mnemonic = rank.Mnemonic
		keyboard, division = b.Keyboard, b.Division
	case aeolus.Coupler:
		ret.Type = "coupler"
		ret.Label = b.Label
		ret.Mnemonic = b.Mnemonic
		keyboard, division = b.Keyboard, b.Division
	case aeolus.Tremul:
		ret.Type = "tremul"
		ret.Label = b.Label
		ret.Mnemonic = b.Mnemonic
		division = b.Division
	default:
		return Button{}, fmt.Errorf("unknown button type %T", b)
	}
	if keyboard != 0 {
		kb, err := in.Keyboard(keyboard)
		if err != nil {
			return Button{}, err
		}
		ret.Keyboard, ret.KeyboardLabel = keyboard, kb.Label
	}
	d, err := in.Division(division)
	if err != nil {
		return Button{}, err
	}
	ret.Division, ret.DivisionLabel = division, d.Label
	return ret, nil
}

func hexMessages(msgs []midi.Message) []string {
	ret := make([]string, len(msgs))
	for i, m := range msgs {
		ret[i] = fmt.Sprintf("% X", []byte(m))
	}
	return ret
}

func YAML(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

func JSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	caser := cases.Title(language.English)
	funcs["title"] = caser.String
	return funcs
}

// New returns a renderer using the built-in templates.
func New() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*")
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("base").Funcs(funcMap()).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return newRenderer(tmpl, names), nil
}

// NewFromTemplates returns a renderer using every template file in
// templateDirectory.
func NewFromTemplates(templateDirectory string) (*Renderer, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	names, err := filepath.Glob(globPtrn)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf(`no templates found in directory "%v"`, templateDirectory)
	}
	tmpl, err := template.New("base").Funcs(funcMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create templates based on directory "%v": %v`, templateDirectory, err)
	}
	return newRenderer(tmpl, names), nil
}

func newRenderer(tmpl *template.Template, files []string) *Renderer {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	sort.Strings(names)
	return &Renderer{Template: tmpl, Names: names}
}

// Render executes every template file with doc and returns the results keyed
// by template file name.
func (r *Renderer) Render(doc *Document) (map[string]string, error) {
	ret := make(map[string]string, len(r.Names))
	for _, name := range r.Names {
		var buf bytes.Buffer
		if err := r.Template.ExecuteTemplate(&buf, name, doc); err != nil {
			return nil, fmt.Errorf(`could not execute template "%v": %v`, name, err)
		}
		ret[name] = buf.String()
	}
	return ret, nil
}
