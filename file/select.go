package file

import (
	"math/rand"

	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/util"
	"github.com/pkg/errors"
)

var ErrInsufficientSamples = errors.New("insufficient samples")

func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Select draws sizes.Total() paths without replacement and splits them
// into train, val and test in draw order. Paths that were not drawn end up
// in Unused. The same rng seed and paths always give the same split.
func Select(paths []string, sizes model.SplitSizes, rng *rand.Rand) (model.Split, error) {
	if sizes.Train < 0 || sizes.Val < 0 || sizes.Test < 0 {
		return model.Split{}, errors.Errorf("negative split sizes %+v", sizes)
	}
	total := sizes.Total()
	if total > len(paths) {
		return model.Split{}, errors.Wrapf(ErrInsufficientSamples, "requested %d files, found %d", total, len(paths))
	}

	// partial fisher-yates over a copy, the first total slots are the draw
	pool := make([]string, len(paths))
	copy(pool, paths)
	for i := 0; i < total; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return partition(pool, sizes.Train, sizes.Val, total), nil
}

// TakeAll keeps scan order and slices it: the first Train paths, then Val
// paths, and the test group gets everything left. Sizes larger than what
// is available are clamped.
func TakeAll(paths []string, sizes model.SplitSizes) model.Split {
	return partition(paths, sizes.Train, sizes.Val, len(paths))
}

func partition(paths []string, train, val, end int) model.Split {
	clamp := func(i int) int {
		return util.Min(i, len(paths))
	}
	a := clamp(train)
	b := clamp(train + val)
	end = clamp(end)

	var s model.Split
	s.Train = append(s.Train, paths[:a]...)
	s.Val = append(s.Val, paths[a:b]...)
	s.Test = append(s.Test, paths[b:end]...)
	s.Unused = append(s.Unused, paths[end:]...)
	return s
}
