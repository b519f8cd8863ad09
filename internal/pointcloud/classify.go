package pointcloud

// Partition groups points by classification code, preserving input order
// within each class. Every input point lands in exactly one bucket, so the
// bucket sizes always sum to len(points). Empty input yields an empty map.
func Partition(points []Point) map[Class][]Point {
	out := make(map[Class][]Point)
	for _, p := range points {
		out[p.Class] = append(out[p.Class], p)
	}
	return out
}

// Filter returns the ordered subsequence of points whose class is in the
// given set. An empty class set selects nothing.
func Filter(points []Point, classes ...Class) []Point {
	if len(classes) == 0 {
		return nil
	}
	want := make(map[Class]struct{}, len(classes))
	for _, c := range classes {
		want[c] = struct{}{}
	}
	var out []Point
	for _, p := range points {
		if _, ok := want[p.Class]; ok {
			out = append(out, p)
		}
	}
	return out
}
