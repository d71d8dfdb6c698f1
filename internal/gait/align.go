package gait

import (
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/stepodom/internal/sensorlog"
)

// knots holds the strictly increasing source timestamps used for
// interpolation and, for each, the index of the source sample it came from.
type knots struct {
	xs  []float64
	src []int
}

// newKnots stably sorts srcT and keeps the last sample of each run of equal
// timestamps, so the result is strictly increasing.
func newKnots(srcT []int64) knots {
	order := make([]int, len(srcT))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return srcT[order[a]] < srcT[order[b]] })

	k := knots{
		xs:  make([]float64, 0, len(order)),
		src: make([]int, 0, len(order)),
	}
	for _, i := range order {
		x := float64(srcT[i])
		if n := len(k.xs); n > 0 && k.xs[n-1] == x {
			k.src[n-1] = i
			continue
		}
		k.xs = append(k.xs, x)
		k.src = append(k.src, i)
	}
	return k
}

// resample evaluates one value column at every target timestamp.
func (k knots) resample(target []int64, srcV []float64) []float64 {
	out := make([]float64, len(target))
	if len(k.xs) == 1 {
		v := srcV[k.src[0]]
		for i := range out {
			out[i] = v
		}
		return out
	}

	ys := make([]float64, len(k.src))
	for i, j := range k.src {
		ys[i] = srcV[j]
	}
	var pl interp.PiecewiseLinear
	// Fit only fails for fewer than two knots, handled above.
	if err := pl.Fit(k.xs, ys); err != nil {
		panic(err)
	}
	for i, t := range target {
		out[i] = pl.Predict(float64(t))
	}
	return out
}

// Align resamples the source channel (srcT, srcV) onto the target
// timestamps by piecewise-linear interpolation. Targets outside the source
// range take the first or last source value. Out-of-order source samples are
// sorted; for duplicate timestamps the last sample in file order wins.
func Align(channel string, target, srcT []int64, srcV []float64) ([]float64, error) {
	if len(srcT) == 0 {
		return nil, channelError(channel, ErrEmptyChannel)
	}
	return newKnots(srcT).resample(target, srcV), nil
}

// AlignVec3 resamples all three axes of c onto target.
func AlignVec3(target []int64, c sensorlog.Vec3Channel) (x, y, z []float64, err error) {
	if c.Len() == 0 {
		return nil, nil, nil, channelError(c.Name, ErrEmptyChannel)
	}
	k := newKnots(c.Timestamps)
	return k.resample(target, c.X), k.resample(target, c.Y), k.resample(target, c.Z), nil
}
