package sensorlog

// FloorPath is the sequence of annotated positions on one floor.
type FloorPath struct {
	Floor      string
	Timestamps []int64
	X, Y       []float64
}

// FloorPaths groups setLocation annotations by floor label, in the order the
// floors first appear in the log.
func FloorPaths(c AnnotationChannel) []FloorPath {
	index := make(map[string]int)
	var paths []FloorPath
	for i, floor := range c.Floor {
		j, ok := index[floor]
		if !ok {
			j = len(paths)
			index[floor] = j
			paths = append(paths, FloorPath{Floor: floor})
		}
		p := &paths[j]
		p.Timestamps = append(p.Timestamps, c.Timestamps[i])
		p.X = append(p.X, c.X[i])
		p.Y = append(p.Y, c.Y[i])
	}
	return paths
}
