// Package progression reads chord progressions written as roman numerals
// joined by hyphens, e.g. "I-V-vi#-IV" or "I:4-IV:2-V:2".
package progression

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/chordplay/chord"
	"github.com/jsphweid/chordplay/constants"
	"github.com/jsphweid/chordplay/model"
	"github.com/pkg/errors"
)

var (
	ErrInvalidProgression = errors.New("invalid progression")
	ErrUnsupportedFormat  = errors.New("unsupported progression file format")
	ErrMissingColumn      = errors.New("progression column not found")
)

const DefaultColumn = "Progression"

// Parse reads one progression. A token may carry its length in eighth notes
// after a colon; otherwise it lasts constants.DefaultChordDuration.
func Parse(s string) (model.Progression, error) {
	var res model.Progression
	for _, token := range strings.Split(strings.TrimSpace(s), "-") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		symbol, duration := token, constants.DefaultChordDuration
		if i := strings.IndexByte(token, ':'); i >= 0 {
			symbol = token[:i]
			d, err := strconv.Atoi(token[i+1:])
			if err != nil || d < 1 {
				return nil, errors.Wrapf(ErrInvalidProgression, "bad duration in %q", token)
			}
			duration = d
		}

		if _, err := chord.ParseSymbol(symbol); err != nil {
			return nil, errors.Wrapf(ErrInvalidProgression, "%v", err)
		}
		res = append(res, model.ChordEvent{Symbol: symbol, Duration: duration})
	}

	if len(res) == 0 {
		return nil, errors.Wrapf(ErrInvalidProgression, "%q has no chords", s)
	}
	return res, nil
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format writes p back out, leaving off durations equal to the default.
func Format(p model.Progression) string {
	parts := make([]string, 0, len(p))
	for _, c := range p {
		if c.Duration == constants.DefaultChordDuration {
			parts = append(parts, c.Symbol)
		} else {
			parts = append(parts, c.Symbol+":"+strconv.Itoa(c.Duration))
		}
	}
	return strings.Join(parts, "-")
}

// ReadTxt returns every non-blank line of r.
func ReadTxt(r io.Reader) ([]string, error) {
	var res []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			res = append(res, line)
		}
	}
	return res, errors.Wrap(scanner.Err(), "reading progressions")
}

// ReadCSV returns the non-empty values of column, which must be named in
// the header row.
func ReadCSV(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrapf(ErrMissingColumn, "%q in empty file", column)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%q", column)
	}

	var res []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv row")
		}
		if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
			res = append(res, strings.TrimSpace(row[idx]))
		}
	}
}

// Load reads progressions from a .txt or .csv file. column only applies to
// csv and defaults to DefaultColumn.
func Load(path string, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".csv" {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening progression file")
	}
	defer f.Close()

	if ext == ".csv" {
		return ReadCSV(f, column)
	}
	return ReadTxt(f)
}
