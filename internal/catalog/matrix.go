package catalog

// Matrix identifies one interaction matrix. Immutable once scanned;
// downstream components reference it, they never mutate it.
type Matrix struct {
	Cell         string
	Region       string
	Chromosome   string
	Start        int
	End          int
	ResolutionBp int
	Path         string
}

// ParticleCount returns the number of discrete modelling units the region
// decomposes into at the matrix resolution.
func (m Matrix) ParticleCount() int {
	if m.ResolutionBp <= 0 {
		return 0
	}
	return (m.End - m.Start) / m.ResolutionBp
}
