// Package roster reads attendee sheets exported as CSV into players.
//
// Each row holds, in order: first name, last name, gender ("F" for female),
// rating, attendance ("y" to attend), an optional side ("A" or "B") and an
// optional slash separated list of positions. Everything up to and including
// a header row whose first cell starts with "fName" is ignored.
package roster

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/teamgen/core/model"
)

// HeaderPrefix marks the header row of an exported sheet.
const HeaderPrefix = "fName"

const minFields = 5

// ErrMalformedRow is matched by every RowError.
var ErrMalformedRow = errors.New("malformed roster row")

// RowError reports a row that was skipped.
type RowError struct {
	Line int
	Raw  string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

func (e *RowError) Is(target error) bool { return target == ErrMalformedRow }

func (e *RowError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Line  int    `json:"line"`
		Raw   string `json:"raw"`
		Error string `json:"error"`
	}{e.Line, e.Raw, e.Err.Error()})
}

// Roster is the outcome of a parse. Absent counts rows whose attendance
// token was not "y".
type Roster struct {
	Players []model.Player `json:"players"`
	Skipped []*RowError    `json:"skipped,omitempty"`
	Absent  int            `json:"absent"`
}

// ParseRow parses one CSV row. attending is false for rows that are not
// marked "y"; those are not validated further.
func ParseRow(line string) (model.Player, bool, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return model.Player{}, false, err
	}
	return parseFields(fields)
}

func parseFields(fields []string) (model.Player, bool, error) {
	if len(fields) < minFields {
		return model.Player{}, false, fmt.Errorf("expected at least %d fields, got %d", minFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[4] != "y" {
		return model.Player{}, false, nil
	}
	rating, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return model.Player{}, true, fmt.Errorf("invalid rating %q", fields[3])
	}
	p := model.Player{
		Name:   strings.TrimSpace(fields[0] + " " + fields[1]),
		Rating: rating,
		Female: fields[2] == "F",
	}
	if len(fields) > 5 {
		p.FixedSide = model.SideFromToken(fields[5])
	}
	if len(fields) > 6 {
		p.Positions = parseTags(fields[6])
	}
	if err := p.Validate(); err != nil {
		return model.Player{}, true, err
	}
	return p, true, nil
}

func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, "/") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type row struct {
	line   int
	fields []string
	err    error
}

// Parse reads a CSV export. Malformed rows are reported in Skipped and
// never abort the load; only read failures of r are returned.
func Parse(r io.Reader) (Roster, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []row
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rows = append(rows, row{line: perr.StartLine, err: perr.Err})
			continue
		}
		if err != nil {
			return Roster{}, err
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, row{line: line, fields: fields})
	}

	start := 0
	for i, rw := range rows {
		if len(rw.fields) > 0 && strings.HasPrefix(rw.fields[0], HeaderPrefix) {
			start = i + 1
			break
		}
	}

	var out Roster
	for _, rw := range rows[start:] {
		raw := strings.Join(rw.fields, ",")
		if rw.err != nil {
			out.Skipped = append(out.Skipped, &RowError{Line: rw.line, Raw: raw, Err: rw.err})
			continue
		}
		if blank(rw.fields) {
			continue
		}
		p, attending, err := parseFields(rw.fields)
		switch {
		case err != nil:
			out.Skipped = append(out.Skipped, &RowError{Line: rw.line, Raw: raw, Err: err})
		case !attending:
			out.Absent++
		default:
			out.Players = append(out.Players, p)
		}
	}
	return out, nil
}

// ParseFile parses the CSV file at path.
func ParseFile(path string) (Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return Roster{}, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// blank reports rows made only of empty cells, as spreadsheets export for
// trailing rows.
func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
