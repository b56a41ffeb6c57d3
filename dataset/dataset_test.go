package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/gridironlab/tdreg/pkg/errors"
)

const sampleCSV = `Player,Pos,Tgt,Rec,Ctch%,Yds,TD
Jerry Rice,WR,120,100,83.3%,1500,15
Marshall Faulk,RB,90,80,88.9%,1000,7
Tony Gonzalez,TE,110,93,84.5%,1200,9
Steve Young,QB,1,1,100.0%,20,0
Random Kicker,K,0,0,,0,0
Injured Guy,WR,50,,,600,4
`

func TestReadParsesRows(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), "sample.csv", DefaultSchema())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", table.Len())
	}

	rec := table.Records()[0]
	if rec.Player != "Jerry Rice" || rec.Position != "WR" {
		t.Errorf("first record = %+v, want Jerry Rice WR", rec)
	}
	if rec.CatchPct != 83.3 {
		t.Errorf("CatchPct = %v, want 83.3 (percent sign stripped)", rec.CatchPct)
	}
	if rec.Touchdowns != 15 {
		t.Errorf("Touchdowns = %v, want 15", rec.Touchdowns)
	}
}

func TestReadBlankCellsBecomeNaN(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), "sample.csv", DefaultSchema())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	injured := table.Records()[5]
	if !math.IsNaN(injured.Receptions) || !math.IsNaN(injured.CatchPct) {
		t.Errorf("blank cells should parse as NaN, got rec=%v catch=%v", injured.Receptions, injured.CatchPct)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty input", ""},
		{"missing column", "Player,Pos,Tgt,Rec,Yds,TD\nJerry Rice,WR,1,1,1,1\n"},
		{"header only", "Player,Pos,Tgt,Rec,Ctch%,Yds,TD\n"},
		{"unparsable cell", "Player,Pos,Tgt,Rec,Ctch%,Yds,TD\nJerry Rice,WR,lots,1,50%,1,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv), "bad.csv", DefaultSchema())
			if err == nil {
				t.Fatal("Read() expected error, got nil")
			}
			var loadErr *errors.DataLoadError
			if !errors.As(err, &loadErr) {
				t.Errorf("error type = %T, want *errors.DataLoadError", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.csv", DefaultSchema())
	var loadErr *errors.DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want *errors.DataLoadError", err)
	}
}

func TestFilterComplete(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), "sample.csv", DefaultSchema())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	filtered := table.FilterComplete()
	if filtered.Len() != 4 {
		t.Fatalf("FilterComplete() kept %d rows, want 4 (kicker and NaN row dropped)", filtered.Len())
	}
	for _, rec := range filtered.Records() {
		switch rec.Position {
		case "QB", "RB", "WR", "TE":
		default:
			t.Errorf("unexpected position %q after filtering", rec.Position)
		}
	}

	// Original table is untouched.
	if table.Len() != 6 {
		t.Errorf("source table mutated: Len() = %d, want 6", table.Len())
	}
}

func TestMatrixAndVector(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), "sample.csv", DefaultSchema())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	clean := table.FilterComplete()

	X, err := clean.Matrix(PredictorColumns...)
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	r, c := X.Dims()
	if r != clean.Len() || c != len(PredictorColumns) {
		t.Errorf("Matrix dims = %dx%d, want %dx%d", r, c, clean.Len(), len(PredictorColumns))
	}
	if X.At(0, 3) != 1500 {
		t.Errorf("X[0][yards] = %v, want 1500", X.At(0, 3))
	}

	y, err := clean.Vector(ColTouchdowns)
	if err != nil {
		t.Fatalf("Vector() error = %v", err)
	}
	if y.Len() != clean.Len() {
		t.Errorf("Vector length = %d, want %d", y.Len(), clean.Len())
	}
	if y.AtVec(0) != 15 {
		t.Errorf("y[0] = %v, want 15", y.AtVec(0))
	}

	if _, err := clean.Matrix("passer_rating"); err == nil {
		t.Error("Matrix() with unknown column should fail")
	}
}
