// Package dvcsettings captures, validates and persists the settings of a
// Digital Volume Correlation analysis.
//
// Example usage:
//
//	params, err := dvcsettings.NewParameterSet(
//	    settings.WithReferenceImage("ref_im.raw"),
//	    settings.WithDeformedImage("def_im.raw"),
//	    settings.WithImageSize(512, 512, 512),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w, err := dvcsettings.NewWriter(params, dvcsettings.DefaultModelSet(), "DVC_Settings.bson",
//	    container.WithConfirmer(confirm.NewConsole(os.Stdin, os.Stdout)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := w.Write(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package dvcsettings

import (
	"github.com/dvc-tools/dvcsettings/pkg/container"
	"github.com/dvc-tools/dvcsettings/pkg/settings"
)

// ParameterSet holds the settings of one analysis run.
type ParameterSet = settings.ParameterSet

// ModelSet holds the discretization used by the solver.
type ModelSet = settings.ModelSet

// Writer writes one ParameterSet and one ModelSet to a container file.
type Writer = container.Writer

// Outcome reports what a Write did.
type Outcome = container.Outcome

// Errors re-exported for errors.Is checks.
var (
	ErrInvalidConfig     = settings.ErrInvalidConfig
	ErrImageSizeRequired = settings.ErrImageSizeRequired
	ErrIO                = container.ErrIO
	ErrMalformed         = container.ErrMalformed
)

// DefaultParameterSet returns a ParameterSet with default values.
func DefaultParameterSet() ParameterSet {
	return settings.DefaultParameterSet()
}

// DefaultModelSet returns a ModelSet with default values.
func DefaultModelSet() ModelSet {
	return settings.DefaultModelSet()
}

// NewParameterSet applies opts on top of the defaults and validates the result.
func NewParameterSet(opts ...settings.ParameterOption) (ParameterSet, error) {
	return settings.NewParameterSet(opts...)
}

// NewModelSet applies opts on top of the defaults and validates the result.
func NewModelSet(opts ...settings.ModelOption) (ModelSet, error) {
	return settings.NewModelSet(opts...)
}

// NewWriter copies params and model, validates them and returns a Writer for path.
func NewWriter(params ParameterSet, model ModelSet, path string, opts ...container.WriterOption) (*Writer, error) {
	return container.NewWriter(params, model, path, opts...)
}

// Read loads the settings stored in a container file.
func Read(path string) (ParameterSet, ModelSet, error) {
	return container.Read(path)
}
