package settings

// ParameterOption sets one named field of a ParameterSet.
type ParameterOption func(*ParameterSet)

// WithAnalysis sets the analysis mode.
func WithAnalysis(analysis string) ParameterOption {
	return func(p *ParameterSet) { p.Analysis = analysis }
}

// WithReferenceImage sets the reference volume path. Its extension selects the format.
func WithReferenceImage(path string) ParameterOption {
	return func(p *ParameterSet) { p.ReferenceImage = path }
}

// WithDeformedImage sets the deformed volume path.
func WithDeformedImage(path string) ParameterOption {
	return func(p *ParameterSet) { p.DeformedImage = path }
}

// WithResultFile sets the path the analysis engine writes its results to.
func WithResultFile(path string) ParameterOption {
	return func(p *ParameterSet) { p.ResultFile = path }
}

// WithROI sets the region of interest bounds [x0, x1, y0, y1, z0, z1].
func WithROI(roi [6]int) ParameterOption {
	return func(p *ParameterSet) { p.ROI = roi }
}

// WithPixelSize sets the physical size of one voxel.
func WithPixelSize(size float64) ParameterOption {
	return func(p *ParameterSet) { p.PixelSize = size }
}

// WithRestart sets the iteration to resume from; 0 starts a fresh run.
func WithRestart(iteration int) ParameterOption {
	return func(p *ParameterSet) { p.Restart = iteration }
}

// WithConvergenceLimit sets the stopping threshold.
func WithConvergenceLimit(limit float64) ParameterOption {
	return func(p *ParameterSet) { p.ConvergenceLimit = limit }
}

// WithIterMax sets the hard iteration cap.
func WithIterMax(n int) ParameterOption {
	return func(p *ParameterSet) { p.IterMax = n }
}

// WithRegularization sets the regularization type and its weight.
func WithRegularization(kind string, param float64) ParameterOption {
	return func(p *ParameterSet) {
		p.RegularizationType = kind
		p.RegularizationParam = param
	}
}

// WithPSample sets the pixel subsampling stride.
func WithPSample(stride int) ParameterOption {
	return func(p *ParameterSet) { p.PSample = stride }
}

// WithImageSize sets the volume size in voxels.
func WithImageSize(nx, ny, nz int) ParameterOption {
	return func(p *ParameterSet) { p.ImageSize = [3]int{nx, ny, nz} }
}

// ModelOption sets one named field of a ModelSet.
type ModelOption func(*ModelSet)

// WithBasis sets the basis type.
func WithBasis(basis string) ModelOption {
	return func(m *ModelSet) { m.Basis = basis }
}

// WithNScale sets the number of coarse-graining levels.
func WithNScale(n int) ModelOption {
	return func(m *ModelSet) { m.NScale = n }
}

// WithMeshSize sets the mesh cell size in voxels along each axis.
func WithMeshSize(nx, ny, nz int) ModelOption {
	return func(m *ModelSet) { m.MeshSize = [3]int{nx, ny, nz} }
}
