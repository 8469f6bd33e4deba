package station

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jask/chargemap/internal/format"
)

var (
	// ErrMissingColumn is returned when a filter column is not in the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoHeader is returned for an empty input.
	ErrNoHeader = errors.New("no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a loaded stations dataset.
type Table struct {
	Columns        []string
	Stations       []Station
	Skipped        int
	Errors         []error // one per skipped line
	HasCoordinates bool

	layout format.Layout
}

// Layout returns the layout the table was read with.
func (t *Table) Layout() format.Layout { return t.layout }

// Value returns the display value of column for s. Coordinate columns render
// normalized; absent coordinates render empty. Without both coordinate
// columns nothing is parsed and the raw cell is shown.
func (t *Table) Value(s Station, column string) string {
	if column == "" {
		return ""
	}
	if !t.HasCoordinates {
		return s.Fields[column]
	}
	switch column {
	case t.layout.LatitudeCol:
		return s.Latitude.String()
	case t.layout.LongitudeCol:
		return s.Longitude.String()
	}
	return s.Fields[column]
}

// Load reads a stations CSV using layout l. Malformed lines are skipped and
// recorded in Table.Errors; only an unusable header is fatal.
func Load(r io.Reader, l format.Layout) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	csvr := csv.NewReader(br)
	csvr.Comma = l.Comma()
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true

	header, err := csvr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range []string{l.CityCol, l.StationTypeCol, l.ChargeTypeCol} {
		if _, ok := index[col]; !ok {
			missing = append(missing, fmt.Sprintf("%q", col))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	_, hasLat := index[l.LatitudeCol]
	_, hasLon := index[l.LongitudeCol]
	t := &Table{
		Columns:        header,
		HasCoordinates: l.LatitudeCol != "" && l.LongitudeCol != "" && hasLat && hasLon,
		layout:         l,
	}

	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			t.skip(fmt.Errorf("line %d: %w", line, err))
			continue
		}
		line, _ := csvr.FieldPos(0)
		if len(rec) > len(header) {
			t.skip(fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(rec)))
			continue
		}

		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				fields[h] = strings.TrimSpace(rec[i])
			} else {
				fields[h] = ""
			}
		}
		s := Station{
			Line:        line,
			Name:        lookup(fields, l.NameCol),
			City:        lookup(fields, l.CityCol),
			StationType: lookup(fields, l.StationTypeCol),
			ChargeType:  lookup(fields, l.ChargeTypeCol),
			Address:     lookup(fields, l.AddressCol),
			Fields:      fields,
		}
		if t.HasCoordinates {
			s.Latitude = ParseCoordinate(fields[l.LatitudeCol])
			s.Longitude = ParseCoordinate(fields[l.LongitudeCol])
		}
		t.Stations = append(t.Stations, s)
	}
	return t, nil
}

func (t *Table) skip(err error) {
	t.Skipped++
	t.Errors = append(t.Errors, err)
}

func lookup(fields map[string]string, col string) string {
	if col == "" {
		return ""
	}
	return fields[col]
}
