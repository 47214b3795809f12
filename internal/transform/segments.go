package transform

import (
	"iter"
	"slices"
	"time"
)

// Level is the colour class of a line segment.
type Level int

const (
	LevelNormal Level = iota
	LevelAlert
)

func (l Level) String() string {
	if l == LevelAlert {
		return "alert"
	}
	return "normal"
}

// Point is a single reading. Index is its position in the series, which is
// where it sits on a category axis.
type Point struct {
	Index int
	Time  time.Time // Zero on a category axis
	Value float64
}

// Segment joins two chronologically adjacent readings.
type Segment struct {
	From Point
	To   Point
}

// Series is a time series sorted by time ascending. Readings with equal
// timestamps keep their row order.
//
// When the timestamps could not be parsed Times is nil and Labels holds the
// timestamp text of every reading in row order instead.
type Series struct {
	Times  []time.Time
	Labels []string
	Values []float64
}

// Chronological sorts the paired slices by time, leaving out zero instants.
// The inputs are not modified.
func Chronological(times []time.Time, values []float64) Series {
	order := chronologicalOrder(times)

	s := Series{
		Times:  make([]time.Time, len(order)),
		Values: make([]float64, len(order)),
	}
	for i, row := range order {
		s.Times[i] = times[row]
		s.Values[i] = values[row]
	}
	return s
}

// chronologicalOrder returns the indexes of non-zero times sorted by time,
// ties in row order.
func chronologicalOrder(times []time.Time) []int {
	order := make([]int, 0, len(times))
	for i, t := range times {
		if !t.IsZero() {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return times[a].Compare(times[b])
	})
	return order
}

// Len returns the number of readings.
func (s Series) Len() int {
	return len(s.Values)
}

// Categorical reports whether the series is placed on a category axis.
func (s Series) Categorical() bool {
	return s.Times == nil && s.Labels != nil
}

// Span returns the first and last instant of the series.
func (s Series) Span() (start, end time.Time, ok bool) {
	if len(s.Times) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start = slices.MinFunc(s.Times, func(a, b time.Time) int { return a.Compare(b) })
	end = slices.MaxFunc(s.Times, func(a, b time.Time) int { return a.Compare(b) })
	return start, end, true
}

// Segments yields one segment per adjacent pair of readings, coloured alert
// when either endpoint is strictly above threshold. A series of n readings
// yields n-1 segments. The sequence holds no cursor and can be ranged over
// any number of times.
func (s Series) Segments(threshold float64) iter.Seq2[Segment, Level] {
	return func(yield func(Segment, Level) bool) {
		for i := 1; i < len(s.Values); i++ {
			seg := Segment{From: s.point(i - 1), To: s.point(i)}
			if !yield(seg, Classify(seg.From.Value, seg.To.Value, threshold)) {
				return
			}
		}
	}
}

func (s Series) point(i int) Point {
	p := Point{Index: i, Value: s.Values[i]}
	if i < len(s.Times) {
		p.Time = s.Times[i]
	}
	return p
}

// Classify returns LevelAlert when a or b is above threshold.
func Classify(a, b, threshold float64) Level {
	if a > threshold || b > threshold {
		return LevelAlert
	}
	return LevelNormal
}
