package sensorlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorPaths(t *testing.T) {
	in := "100 setLocation 1 0 0\n" +
		"200 setLocation 0 5 5\n" +
		"300 setLocation 1 2 3\n" +
		"400 setLocation basement -1 -1\n"
	l, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	paths := FloorPaths(l.Annotations)
	require.Len(t, paths, 3)

	assert.Equal(t, FloorPath{Floor: "1", Timestamps: []int64{100, 300}, X: []float64{0, 2}, Y: []float64{0, 3}}, paths[0])
	assert.Equal(t, "0", paths[1].Floor)
	assert.Equal(t, "basement", paths[2].Floor)
	assert.Equal(t, []float64{-1}, paths[2].X)
}

func TestFloorPaths_Empty(t *testing.T) {
	assert.Empty(t, FloorPaths(AnnotationChannel{}))
}
