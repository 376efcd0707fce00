// Package split partitions labelled rows into train and test sets.
package split

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// ErrTooFewSamples is returned when a class cannot be represented in both partitions.
var ErrTooFewSamples = errors.New("split: too few samples")

// Stratified returns train and test row indices such that each class keeps its
// share of rows in both partitions. The test partition holds ceil(testSize*n)
// rows, allocated to classes by largest remainder. The same seed and labels
// always produce the same partitions; indices come back in ascending order.
func Stratified(y []int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.Errorf("split: test size must be in (0, 1), got %g", testSize)
	}
	n := len(y)
	byClass := make(map[int][]int)
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]int, 0, len(byClass))
	for c, rows := range byClass {
		if len(rows) < 2 {
			return nil, nil, errors.Wrapf(ErrTooFewSamples, "class %d has %d row(s), need at least 2", c, len(rows))
		}
		classes = append(classes, c)
	}
	sort.Ints(classes)

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, nil, errors.Wrapf(ErrTooFewSamples,
			"%d train / %d test rows cannot hold %d classes", nTrain, nTest, len(classes))
	}

	alloc := allocate(classes, byClass, nTest, n)
	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		rows := append([]int(nil), byClass[c]...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		test = append(test, rows[:alloc[c]]...)
		train = append(train, rows[alloc[c]:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// allocate splits nTest across classes proportionally to class size, keeping at
// least one row of every class on each side.
func allocate(classes []int, byClass map[int][]int, nTest, n int) map[int]int {
	alloc := make(map[int]int, len(classes))
	type remainder struct {
		class int
		frac  float64
	}
	rems := make([]remainder, 0, len(classes))
	given := 0
	for _, c := range classes {
		exact := float64(nTest) * float64(len(byClass[c])) / float64(n)
		k := int(math.Floor(exact))
		k = max(1, min(k, len(byClass[c])-1))
		alloc[c] = k
		given += k
		rems = append(rems, remainder{class: c, frac: exact - math.Floor(exact)})
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for given < nTest {
		moved := false
		for _, r := range rems {
			if given == nTest {
				break
			}
			if alloc[r.class] < len(byClass[r.class])-1 {
				alloc[r.class]++
				given++
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	for given > nTest {
		moved := false
		for i := len(rems) - 1; i >= 0 && given > nTest; i-- {
			if c := rems[i].class; alloc[c] > 1 {
				alloc[c]--
				given--
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return alloc
}
