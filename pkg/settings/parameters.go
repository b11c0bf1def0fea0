package settings

import (
	"errors"
	"math"
	"path/filepath"
	"slices"
	"strings"
)

// Analysis modes understood by the analysis engine.
const (
	AnalysisCorrelation = "correlation"
)

// Regularization types understood by the analysis engine.
const (
	// RegularizationTikhonov is Tikhonov smoothing.
	RegularizationTikhonov = "tiko"

	// RegularizationEquilibriumGap is the mechanical equilibrium-gap penalty.
	RegularizationEquilibriumGap = "equi"
)

// RawExtension is the extension of headerless raw volumes.
const RawExtension = ".raw"

// ROIEnd marks a region of interest bound that extends to the end of its axis.
const ROIEnd = -1

var (
	knownAnalyses       = []string{AnalysisCorrelation}
	knownRegularization = []string{RegularizationTikhonov, RegularizationEquilibriumGap}
)

// KnownAnalyses returns the accepted analysis modes.
func KnownAnalyses() []string { return slices.Clone(knownAnalyses) }

// KnownRegularizations returns the accepted regularization types.
func KnownRegularizations() []string { return slices.Clone(knownRegularization) }

// ParameterSet holds the settings of one analysis run.
// Use DefaultParameterSet or NewParameterSet to get a populated value.
type ParameterSet struct {
	Analysis       string
	ReferenceImage string
	DeformedImage  string
	ResultFile     string

	// ROI is [x0, x1, y0, y1, z0, z1]; an end bound of ROIEnd runs to the end of the axis.
	ROI       [6]int
	PixelSize float64

	// Restart is 0 for a fresh run, otherwise the iteration to resume from.
	Restart          int
	ConvergenceLimit float64
	IterMax          int

	RegularizationType  string
	RegularizationParam float64

	// PSample is the pixel subsampling stride.
	PSample int

	// ImageSize is the volume size in voxels. The zero value means absent;
	// it is required when ReferenceImage is raw.
	ImageSize [3]int
}

// DefaultParameterSet returns a ParameterSet with default values.
func DefaultParameterSet() ParameterSet {
	return ParameterSet{
		Analysis:            AnalysisCorrelation,
		ReferenceImage:      "ref_im.raw",
		DeformedImage:       "def_im.raw",
		ResultFile:          "out.res",
		ROI:                 [6]int{0, ROIEnd, 0, ROIEnd, 0, ROIEnd},
		PixelSize:           1.0,
		Restart:             0,
		ConvergenceLimit:    1.0e-4,
		IterMax:             30,
		RegularizationType:  RegularizationTikhonov,
		RegularizationParam: 16,
		PSample:             1,
	}
}

// NewParameterSet applies opts on top of the defaults and validates the result.
func NewParameterSet(opts ...ParameterOption) (ParameterSet, error) {
	p := DefaultParameterSet()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return ParameterSet{}, err
	}
	return p, nil
}

// HasImageSize reports whether an image size was given.
func (p ParameterSet) HasImageSize() bool {
	return p.ImageSize != [3]int{}
}

// IsRaw reports whether the reference image is a headerless raw volume.
func (p ParameterSet) IsRaw() bool {
	return strings.EqualFold(filepath.Ext(p.ReferenceImage), RawExtension)
}

// Validate checks every field and returns all violations joined together.
func (p ParameterSet) Validate() error {
	var errs []error

	if !slices.Contains(knownAnalyses, p.Analysis) {
		errs = append(errs, invalidf("unknown analysis %q", p.Analysis))
	}
	if p.ReferenceImage == "" {
		errs = append(errs, invalidf("reference image is required"))
	}
	if p.DeformedImage == "" {
		errs = append(errs, invalidf("deformed image is required"))
	}
	if err := validateROI(p.ROI); err != nil {
		errs = append(errs, err)
	}
	if !positiveFinite(p.PixelSize) {
		errs = append(errs, invalidf("pixel size must be positive, got %v", p.PixelSize))
	}
	if p.Restart < 0 {
		errs = append(errs, invalidf("restart must not be negative, got %d", p.Restart))
	}
	if !positiveFinite(p.ConvergenceLimit) {
		errs = append(errs, invalidf("convergence limit must be positive, got %v", p.ConvergenceLimit))
	}
	if p.IterMax <= 0 {
		errs = append(errs, invalidf("iter max must be positive, got %d", p.IterMax))
	}
	if !slices.Contains(knownRegularization, p.RegularizationType) {
		errs = append(errs, invalidf("unknown regularization type %q", p.RegularizationType))
	}
	// The admissible range depends on the regularization type and is left
	// to the analysis engine.
	if math.IsNaN(p.RegularizationParam) || math.IsInf(p.RegularizationParam, 0) {
		errs = append(errs, invalidf("regularization parameter must be finite, got %v", p.RegularizationParam))
	}
	if p.PSample <= 0 {
		errs = append(errs, invalidf("psample must be positive, got %d", p.PSample))
	}

	if p.HasImageSize() {
		if err := validateSize("image size", p.ImageSize); err != nil {
			errs = append(errs, err)
		}
	} else if p.IsRaw() {
		errs = append(errs, ErrImageSizeRequired)
	}

	return errors.Join(errs...)
}

// String renders every field on its own "Label: value" line in a fixed order.
func (p ParameterSet) String() string {
	var r renderer
	r.header("-------------PARAMETERS---------------")
	r.line("Analysis", p.Analysis)
	r.line("Reference image", p.ReferenceImage)
	r.line("Deformed image", p.DeformedImage)
	r.line("Result file", p.ResultFile)
	r.line("ROI", formatInts(p.ROI[:]))
	r.line("Pixel size", formatFloat(p.PixelSize))
	r.line("Restart", formatInt(p.Restart))
	r.line("Convergence limit", formatFloat(p.ConvergenceLimit))
	r.line("Maximum iterations", formatInt(p.IterMax))
	r.line("Regularization type", p.RegularizationType)
	r.line("Regularization parameter", formatFloat(p.RegularizationParam))
	r.line("Pixel skip", formatInt(p.PSample))
	if p.HasImageSize() {
		r.line("Image size", formatInts(p.ImageSize[:]))
	} else {
		r.line("Image size", "[]")
	}
	return r.String()
}

func validateROI(roi [6]int) error {
	axes := [3]string{"x", "y", "z"}
	var errs []error
	for i, axis := range axes {
		start, end := roi[2*i], roi[2*i+1]
		if start < 0 {
			errs = append(errs, invalidf("roi %s start must not be negative, got %d", axis, start))
			continue
		}
		if end != ROIEnd && end < start {
			errs = append(errs, invalidf("roi %s end %d is before start %d", axis, end, start))
		}
	}
	return errors.Join(errs...)
}

func validateSize(name string, size [3]int) error {
	for _, n := range size {
		if n <= 0 {
			return invalidf("%s must have three positive entries, got %s", name, formatInts(size[:]))
		}
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
