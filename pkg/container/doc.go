// Package container persists DVC settings to a structured binary container
// and reads them back.
//
// A container is a single BSON document holding two embedded documents,
// "param" and "model", with one named entry per setting:
//
//	param.analysis             string
//	param.reference_image      string
//	param.deformed_image       string
//	param.result_file          string
//	param.roi                  array of 6 int64
//	param.pixel_size           double
//	param.restart              int64
//	param.conv_lim             double
//	param.iter_max             int64
//	param.regularization_type  string
//	param.regularization_param double
//	param.psample              int64
//	param.image_size           array of 3 int64, present only when set
//	model.basis                string
//	model.nscale               int64
//	model.mesh_size            array of 3 int64
//
// Entry names and grouping are the compatibility contract with the analysis
// engine and must not change.
//
// # Writing
//
// A [Writer] owns copies of one ParameterSet and one ModelSet and performs a
// single write. An existing file is only replaced after the configured
// [confirm.Confirmer] answers yes; the default confirmer always declines.
// The file is written to a temporary sibling and renamed into place, so the
// destination is either the previous file or the complete new one.
//
//	w, err := container.NewWriter(params, model, "DVC_Settings.bson",
//	    container.WithConfirmer(confirm.NewConsole(os.Stdin, os.Stdout)),
//	)
//	if err != nil {
//	    return err
//	}
//	outcome, err := w.Write(ctx)
//
// # Version
//
// Current version: 0.1.0
// Minimum compatible version: 0.1.0
//
// See version.go for version constants that can be used programmatically.
package container
