package merge

// Epsilon is the comparison tolerance used by the kernel
const Epsilon = 1e-7

// Interval is a closed range of values that score as certainly mergeable
type Interval struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Point returns the degenerate interval [v, v]
func Point(v float64) Interval {
	return Interval{Min: v, Max: v}
}

// Uniform is the piecewise-linear probability kernel with the default
// tolerance. See UniformEps.
func Uniform(iv Interval, p, length float64) float64 {
	return UniformEps(iv, p, length, Epsilon)
}

// UniformEps returns 1 when p lies in [Min-eps, Max+eps], 0 when p lies at
// distance length or more past either edge, and falls off linearly in
// between. A non-positive length gives a hard step.
func UniformEps(iv Interval, p, length, eps float64) float64 {
	if p >= iv.Min-eps && p <= iv.Max+eps {
		return 1
	}
	if length <= 0 {
		return 0
	}
	if p < iv.Min-length-eps || p > iv.Max+length+eps {
		return 0
	}

	var deviation float64
	if p < iv.Min {
		deviation = iv.Min - p
	} else {
		deviation = p - iv.Max
	}
	return clamp01((length - deviation) / length)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
