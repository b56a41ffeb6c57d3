// Package dataset loads the player-season receiving table and prepares it
// for fitting: schema validation, missing-value and position filtering, and
// conversion to gonum matrices.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gridironlab/tdreg/pkg/errors"
)

// Column names used by the analysis. The schema maps these onto whatever
// headers the input file actually carries.
const (
	ColPlayer     = "player"
	ColPosition   = "position"
	ColTargets    = "targets"
	ColReceptions = "receptions"
	ColCatchPct   = "catch_pct"
	ColYards      = "yards"
	ColTouchdowns = "touchdowns"
)

// PredictorColumns is the fixed predictor set, in model order.
var PredictorColumns = []string{ColTargets, ColReceptions, ColCatchPct, ColYards}

// OffensiveSkillPositions are the positions retained by the analysis.
var OffensiveSkillPositions = []string{"QB", "RB", "WR", "TE"}

// Record is one player-season row. Numeric fields hold NaN when the source
// cell was blank or marked NA; FilterComplete drops such rows.
type Record struct {
	Player     string
	Position   string
	Targets    float64
	Receptions float64
	CatchPct   float64
	Yards      float64
	Touchdowns float64
}

// Schema maps analysis columns onto the headers of the input file.
type Schema struct {
	Player     string
	Position   string
	Targets    string
	Receptions string
	CatchPct   string
	Yards      string
	Touchdowns string
}

// DefaultSchema matches the pro-football-reference style receiving export.
func DefaultSchema() Schema {
	return Schema{
		Player:     "Player",
		Position:   "Pos",
		Targets:    "Tgt",
		Receptions: "Rec",
		CatchPct:   "Ctch%",
		Yards:      "Yds",
		Touchdowns: "TD",
	}
}

// Table is an ordered, immutable collection of records. Filtering and
// splitting return new tables; the receiver is never mutated.
type Table struct {
	records []Record
	source  string
}

// NewTable wraps a record slice, mainly for tests and synthetic data.
func NewTable(records []Record) *Table {
	return &Table{records: records, source: "memory"}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the rows in order. The returned slice must not be modified.
func (t *Table) Records() []Record {
	return t.records
}

// Load reads a CSV file into a table.
func Load(path string, schema Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataLoadError(path, "cannot open input file", err)
	}
	defer f.Close()

	return Read(f, path, schema)
}

// Read parses CSV rows from r. The first row must be a header containing
// every column the schema names; anything else is a DataLoadError.
func Read(r io.Reader, source string, schema Schema) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewDataLoadError(source, "malformed CSV", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewDataLoadError(source, "input file is empty", errors.ErrEmptyData)
	}

	idx, err := columnIndex(rows[0], schema, source)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, idx, source, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.NewDataLoadError(source, "no data rows after header", errors.ErrEmptyData)
	}

	return &Table{records: records, source: source}, nil
}

// columnIndex resolves schema names to header positions.
type colIdx struct {
	player, position, targets, receptions, catchPct, yards, touchdowns int
}

func columnIndex(header []string, schema Schema, source string) (colIdx, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	idx := colIdx{}
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{schema.Player, &idx.player},
		{schema.Position, &idx.position},
		{schema.Targets, &idx.targets},
		{schema.Receptions, &idx.receptions},
		{schema.CatchPct, &idx.catchPct},
		{schema.Yards, &idx.yards},
		{schema.Touchdowns, &idx.touchdowns},
	} {
		i, ok := pos[col.name]
		if !ok {
			return colIdx{}, errors.NewDataLoadError(source, "missing expected column "+strconv.Quote(col.name), nil)
		}
		*col.dst = i
	}

	return idx, nil
}

func parseRow(row []string, idx colIdx, source string, line int) (Record, error) {
	maxIdx := idx.player
	for _, i := range []int{idx.position, idx.targets, idx.receptions, idx.catchPct, idx.yards, idx.touchdowns} {
		if i > maxIdx {
			maxIdx = i
		}
	}
	if len(row) <= maxIdx {
		return Record{}, errors.NewDataLoadError(source,
			"row "+strconv.Itoa(line)+" has too few fields", nil)
	}

	rec := Record{
		Player:   strings.TrimSpace(row[idx.player]),
		Position: strings.ToUpper(strings.TrimSpace(row[idx.position])),
	}

	for _, col := range []struct {
		raw string
		dst *float64
	}{
		{row[idx.targets], &rec.Targets},
		{row[idx.receptions], &rec.Receptions},
		{row[idx.catchPct], &rec.CatchPct},
		{row[idx.yards], &rec.Yards},
		{row[idx.touchdowns], &rec.Touchdowns},
	} {
		v, err := parseCell(col.raw)
		if err != nil {
			return Record{}, errors.NewDataLoadError(source,
				"row "+strconv.Itoa(line)+": cannot parse "+strconv.Quote(col.raw), err)
		}
		*col.dst = v
	}

	return rec, nil
}

// parseCell converts one numeric cell. Blank and NA cells become NaN so the
// filter stage can drop the row; "63.4%" style percentages parse as 63.4.
func parseCell(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(s, 64)
}

// FilterComplete returns the rows with no missing value in any required stat
// and a position in the given set. With no positions given it keeps the
// offensive skill positions.
func (t *Table) FilterComplete(positions ...string) *Table {
	if len(positions) == 0 {
		positions = OffensiveSkillPositions
	}
	keep := make(map[string]bool, len(positions))
	for _, p := range positions {
		keep[strings.ToUpper(p)] = true
	}

	filtered := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		if !keep[rec.Position] {
			continue
		}
		if anyNaN(rec.Targets, rec.Receptions, rec.CatchPct, rec.Yards, rec.Touchdowns) {
			continue
		}
		filtered = append(filtered, rec)
	}

	return &Table{records: filtered, source: t.source}
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Matrix assembles the named columns into an n×len(cols) dense matrix.
func (t *Table) Matrix(cols ...string) (*mat.Dense, error) {
	if len(t.records) == 0 {
		return nil, errors.NewValueError("Table.Matrix", "empty table")
	}

	m := mat.NewDense(len(t.records), len(cols), nil)
	for j, col := range cols {
		get, err := accessor(col)
		if err != nil {
			return nil, err
		}
		for i, rec := range t.records {
			m.Set(i, j, get(rec))
		}
	}
	return m, nil
}

// Vector extracts one named column as a dense vector.
func (t *Table) Vector(col string) (*mat.VecDense, error) {
	if len(t.records) == 0 {
		return nil, errors.NewValueError("Table.Vector", "empty table")
	}

	get, err := accessor(col)
	if err != nil {
		return nil, err
	}
	v := mat.NewVecDense(len(t.records), nil)
	for i, rec := range t.records {
		v.SetVec(i, get(rec))
	}
	return v, nil
}

func accessor(col string) (func(Record) float64, error) {
	switch col {
	case ColTargets:
		return func(r Record) float64 { return r.Targets }, nil
	case ColReceptions:
		return func(r Record) float64 { return r.Receptions }, nil
	case ColCatchPct:
		return func(r Record) float64 { return r.CatchPct }, nil
	case ColYards:
		return func(r Record) float64 { return r.Yards }, nil
	case ColTouchdowns:
		return func(r Record) float64 { return r.Touchdowns }, nil
	default:
		return nil, errors.NewValueError("Table column", "unknown column "+strconv.Quote(col))
	}
}
