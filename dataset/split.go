package dataset

import (
	"math/rand/v2"
	"sort"

	"github.com/gridironlab/tdreg/pkg/errors"
)

// Split partitions the table into disjoint train and test subsets.
// ⌊trainFrac·n⌋ rows are drawn without replacement into train; the rest form
// test. The seed fully determines the partition for a given row order, so
// repeated runs reproduce the same split. Row order within each subset
// follows the original table order.
func (t *Table) Split(seed uint64, trainFrac float64) (train, test *Table, err error) {
	n := len(t.records)
	if n < 2 {
		return nil, nil, errors.NewValueError("Table.Split", "need at least 2 rows to split")
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, nil, errors.NewValueError("Table.Split", "train fraction must be in (0, 1)")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	nTrain := int(float64(n) * trainFrac)
	trainIdx := append([]int(nil), indices[:nTrain]...)
	testIdx := append([]int(nil), indices[nTrain:]...)
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	return t.subset(trainIdx), t.subset(testIdx), nil
}

func (t *Table) subset(indices []int) *Table {
	records := make([]Record, len(indices))
	for i, idx := range indices {
		records[i] = t.records[idx]
	}
	return &Table{records: records, source: t.source}
}
