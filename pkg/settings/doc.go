// Package settings holds the configuration model of a DVC (Digital Volume
// Correlation) analysis.
//
// Two value types make up a complete configuration:
//
//   - [ParameterSet]: analysis-run settings (images, ROI, convergence, regularization)
//   - [ModelSet]: discretization settings (basis, coarse-graining scales, mesh size)
//
// Both are plain values. Fixed-length sequences (ROI, image size, mesh size)
// are arrays, so assigning or passing a set copies it completely and no two
// holders ever share mutable state.
//
// # Usage
//
// Build a set from the defaults and named-field options:
//
//	params, err := settings.NewParameterSet(
//	    settings.WithReferenceImage("ref.raw"),
//	    settings.WithDeformedImage("def.raw"),
//	    settings.WithImageSize(512, 512, 512),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(params)
//
// Validation happens in the factories. A raw (headerless) reference image
// without an image size is rejected with [ErrImageSizeRequired].
//
// # Version
//
// Current version: 0.1.0
// Minimum compatible version: 0.1.0
//
// See version.go for version constants that can be used programmatically.
package settings
