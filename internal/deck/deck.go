// Package deck parses keybind deck files: UTF-8 TSV files where each line
// is either a directive, a comment, blank, or a "keybind\tdescription"
// card entry.
package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	kbserrors "github.com/dbalmain/kbsr/internal/errors"
	"github.com/dbalmain/kbsr/internal/keybind"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
)

// Card is one parsed deck entry: a keybind expression and its description.
type Card struct {
	KeybindText string
	Description string
	Chords      keybind.ChordSeq
}

// Deck is the parsed contents of one deck file.
type Deck struct {
	Name  string
	Mode  interpret.Mode
	Cards []Card
}

// Warning reports a recoverable problem found while parsing one deck file.
// Parsing continues after a warning; the caller decides how to surface it.
type Warning struct {
	Deck string
	Line int
	Text string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s:%d: %v", w.Deck, w.Line, w.Err)
}

var directiveRe = regexp.MustCompile(`^#\s*([A-Za-z_]+)\s*:\s*(.+?)\s*$`)

// ParseDir parses every *.tsv file in dir. A file that fails to open is
// reported as an Io error; malformed lines within a file are reported as
// Warnings and skipped, not fatal.
func ParseDir(dir string) ([]*Deck, []Warning, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, kbserrors.NewIoError(dir, err)
	}

	var decks []*Deck
	var warnings []Warning
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tsv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		d, ws, err := ParseFile(path)
		if err != nil {
			return nil, nil, err
		}
		decks = append(decks, d)
		warnings = append(warnings, ws...)
	}
	return decks, warnings, nil
}

// ParseFile parses a single deck file. The deck's name is its base name
// without the .tsv extension.
func ParseFile(path string) (*Deck, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, kbserrors.NewIoError(path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), ".tsv")
	d := &Deck{Name: name, Mode: interpret.ModeRaw}

	var warnings []Warning
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			if m := directiveRe.FindStringSubmatch(trimmed); m != nil {
				directive, value := strings.ToLower(m[1]), strings.ToLower(m[2])
				if directive == "mode" {
					mode, ok := parseMode(value)
					if !ok {
						warnings = append(warnings, Warning{Deck: name, Line: lineNo, Text: line,
							Err: fmt.Errorf("unrecognized mode %q, keeping %v", value, d.Mode)})
						continue
					}
					d.Mode = mode
				} else {
					warnings = append(warnings, Warning{Deck: name, Line: lineNo, Text: line,
						Err: fmt.Errorf("unknown directive %q", directive)})
				}
			}
			// A plain comment line (no directive syntax) is skipped silently.
			continue
		}

		tabIdx := strings.Index(line, "\t")
		if tabIdx < 0 {
			warnings = append(warnings, Warning{Deck: name, Line: lineNo, Text: line,
				Err: kbserrors.NewDeckParseError(name, lineNo, line, "missing tab between keybind and description")})
			continue
		}

		kbText := strings.TrimSpace(line[:tabIdx])
		description := strings.TrimRight(line[tabIdx+1:], "\r\n")

		chords, err := keybind.Parse(kbText)
		if err != nil {
			warnings = append(warnings, Warning{Deck: name, Line: lineNo, Text: line,
				Err: kbserrors.NewDeckParseError(name, lineNo, line, err.Error())})
			continue
		}

		d.Cards = append(d.Cards, Card{KeybindText: chords.String(), Description: description, Chords: chords})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, kbserrors.NewIoError(path, err)
	}

	return d, warnings, nil
}

func parseMode(value string) (interpret.Mode, bool) {
	switch value {
	case "raw":
		return interpret.ModeRaw, true
	case "chars":
		return interpret.ModeChars, true
	case "command":
		return interpret.ModeCommand, true
	default:
		return interpret.ModeRaw, false
	}
}
