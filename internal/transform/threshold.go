package transform

// Split is a partition of values around a fixed threshold.
type Split struct {
	Threshold float64
	Normal    []float64 // Values <= Threshold
	High      []float64 // Values > Threshold
}

// SplitThreshold partitions values into normal (<= threshold) and high
// (> threshold), keeping the input order within each part. NaN compares false
// both ways and lands in neither part.
func SplitThreshold(values []float64, threshold float64) Split {
	s := Split{
		Threshold: threshold,
		Normal:    make([]float64, 0, len(values)),
		High:      make([]float64, 0),
	}
	for _, v := range values {
		switch {
		case v <= threshold:
			s.Normal = append(s.Normal, v)
		case v > threshold:
			s.High = append(s.High, v)
		}
	}
	return s
}
