package aeolus

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Layout of the header at the start of an Aeolus rank file. Only the label
// and the mnemonic are of interest here; both are null-terminated.
const (
	rankLabelOffset    = 32
	rankLabelSize      = 32
	rankMnemonicOffset = rankLabelOffset + rankLabelSize + 56
	rankMnemonicSize   = 8
	RankHeaderSize     = rankMnemonicOffset + rankMnemonicSize
)

// RankHeader holds the texts read from a rank file header.
type RankHeader struct {
	Label    string
	Mnemonic string
}

// ReadRankHeader opens the rank file name in fsys, reads its header and
// closes the file.
func ReadRankHeader(fsys fs.FS, name string) (RankHeader, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return RankHeader{}, err
	}
	defer f.Close()
	h, err := ParseRankHeader(f)
	if err != nil {
		return RankHeader{}, fmt.Errorf("rank file %v: %w", name, err)
	}
	return h, nil
}

// ParseRankHeader reads the first RankHeaderSize bytes of r. A '$' in the
// label stands for a line break.
func ParseRankHeader(r io.Reader) (RankHeader, error) {
	var buf [RankHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return RankHeader{}, ErrShortHeader
		}
		return RankHeader{}, err
	}
	label := cString(buf[rankLabelOffset : rankLabelOffset+rankLabelSize])
	return RankHeader{
		Label:    strings.ReplaceAll(label, "$", "\n"),
		Mnemonic: cString(buf[rankMnemonicOffset : rankMnemonicOffset+rankMnemonicSize]),
	}, nil
}

// cString returns the bytes of b up to the first null byte, or all of b if
// there is none.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
