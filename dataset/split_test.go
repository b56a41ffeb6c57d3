package dataset

import (
	"fmt"
	"testing"
)

func syntheticTable(n int) *Table {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Player:     fmt.Sprintf("Player %03d", i),
			Position:   "WR",
			Targets:    float64(50 + i),
			Receptions: float64(30 + i),
			CatchPct:   60.0,
			Yards:      float64(400 + 10*i),
			Touchdowns: float64(i % 12),
		}
	}
	return NewTable(records)
}

func TestSplitDeterminism(t *testing.T) {
	table := syntheticTable(103)

	for _, seed := range []uint64{0, 1, 42, 1 << 40} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			trainA, testA, err := table.Split(seed, 0.8)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			trainB, testB, err := table.Split(seed, 0.8)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}

			if !samePlayers(trainA, trainB) || !samePlayers(testA, testB) {
				t.Error("same seed produced different partitions")
			}
		})
	}
}

func TestSplitDifferentSeedsDiffer(t *testing.T) {
	table := syntheticTable(100)

	trainA, _, _ := table.Split(1, 0.8)
	trainB, _, _ := table.Split(2, 0.8)

	if samePlayers(trainA, trainB) {
		t.Error("different seeds produced identical train sets; shuffle is not seeded")
	}
}

func TestSplitPartitionInvariants(t *testing.T) {
	for _, n := range []int{2, 3, 10, 97, 250} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			table := syntheticTable(n)
			train, test, err := table.Split(42, 0.8)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}

			wantTrain := int(float64(n) * 0.8)
			if train.Len() != wantTrain {
				t.Errorf("train size = %d, want %d", train.Len(), wantTrain)
			}
			if train.Len()+test.Len() != n {
				t.Errorf("train+test = %d, want %d", train.Len()+test.Len(), n)
			}

			seen := make(map[string]bool, n)
			for _, rec := range train.Records() {
				seen[rec.Player] = true
			}
			for _, rec := range test.Records() {
				if seen[rec.Player] {
					t.Errorf("record %q appears in both subsets", rec.Player)
				}
				seen[rec.Player] = true
			}
			if len(seen) != n {
				t.Errorf("union covers %d rows, want %d", len(seen), n)
			}
		})
	}
}

func TestSplitRejectsBadInputs(t *testing.T) {
	if _, _, err := syntheticTable(1).Split(42, 0.8); err == nil {
		t.Error("Split() on a single row should fail")
	}
	if _, _, err := syntheticTable(10).Split(42, 0.0); err == nil {
		t.Error("Split() with zero train fraction should fail")
	}
	if _, _, err := syntheticTable(10).Split(42, 1.0); err == nil {
		t.Error("Split() with train fraction 1.0 should fail")
	}
}

func samePlayers(a, b *Table) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Records() {
		if a.Records()[i].Player != b.Records()[i].Player {
			return false
		}
	}
	return true
}
