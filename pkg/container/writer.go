package container

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/dvc-tools/dvcsettings/pkg/confirm"
	"github.com/dvc-tools/dvcsettings/pkg/log"
	"github.com/dvc-tools/dvcsettings/pkg/settings"
)

// DefaultFileName is the conventional container file name.
const DefaultFileName = "DVC_Settings.bson"

// OverwritePrompt is the question put to the Confirmer; %s is the output path.
const OverwritePrompt = "There is a file at %s. Do you want to overwrite it? (y/n) "

// Outcome reports what a Write did.
type Outcome int

const (
	// OutcomeFailed accompanies a non-nil error; the destination is unchanged.
	OutcomeFailed Outcome = iota

	// OutcomeWritten means the container was written.
	OutcomeWritten

	// OutcomeDeclined means an existing file was kept because the overwrite
	// was not confirmed. Nothing was written.
	OutcomeDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeDeclined:
		return "declined"
	default:
		return "failed"
	}
}

// Writer writes one ParameterSet and one ModelSet to a container file.
// It holds its own copies of both sets.
type Writer struct {
	params settings.ParameterSet
	model  settings.ModelSet
	path   string

	confirmer confirm.Confirmer
	logger    log.Logger
	perm      os.FileMode
}

// WriterOption configures optional behavior of a Writer.
type WriterOption func(*writerOptions)

type writerOptions struct {
	confirmer confirm.Confirmer
	logger    log.Logger
	perm      os.FileMode
}

func defaultWriterOptions() writerOptions {
	return writerOptions{
		confirmer: confirm.Never,
		logger:    log.NewNoopLogger(),
		perm:      0o644,
	}
}

// WithConfirmer sets who is asked before an existing file is replaced.
// If not provided, existing files are never replaced.
func WithConfirmer(c confirm.Confirmer) WriterOption {
	return func(o *writerOptions) {
		o.confirmer = c
	}
}

// WithLogger sets a logger. If not provided, nothing is logged.
func WithLogger(l log.Logger) WriterOption {
	return func(o *writerOptions) {
		o.logger = l
	}
}

// WithFileMode sets the permission bits of the written file. Default 0644.
func WithFileMode(perm os.FileMode) WriterOption {
	return func(o *writerOptions) {
		o.perm = perm
	}
}

// NewWriter copies params and model and validates them together.
// Validation errors are returned before any file system access.
func NewWriter(params settings.ParameterSet, model settings.ModelSet, path string, opts ...WriterOption) (*Writer, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	o := defaultWriterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.confirmer == nil {
		o.confirmer = confirm.Never
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	return &Writer{
		params:    params,
		model:     model,
		path:      path,
		confirmer: o.confirmer,
		logger:    o.logger,
		perm:      o.perm,
	}, nil
}

// Params returns the writer's copy of the parameter set.
func (w *Writer) Params() settings.ParameterSet { return w.params }

// Model returns the writer's copy of the model set.
func (w *Writer) Model() settings.ModelSet { return w.model }

// Path returns the output path.
func (w *Writer) Path() string { return w.path }

// Write serializes both sets to the output path.
//
// If a file already exists there, the Confirmer is asked first. Any answer
// other than yes returns OutcomeDeclined with a nil error and leaves the file
// untouched. File system failures are returned as *IOError (matching ErrIO)
// and never leave a partial file at the output path.
func (w *Writer) Write(ctx context.Context) (Outcome, error) {
	exists, err := pathExists(w.path)
	if err != nil {
		w.logger.Error("settings write failed", log.String("path", w.path), log.Err(err))
		return OutcomeFailed, err
	}

	if exists {
		ok, err := w.confirmer.Confirm(ctx, fmt.Sprintf(OverwritePrompt, w.path))
		if err != nil {
			return OutcomeFailed, errors.Wrap(err, "confirm overwrite")
		}
		if !ok {
			w.logger.Warn("overwrite declined, nothing written", log.String("path", w.path))
			return OutcomeDeclined, nil
		}
	}

	data, err := Encode(w.params, w.model)
	if err != nil {
		return OutcomeFailed, err
	}
	if err := writeFileAtomic(w.path, data, w.perm); err != nil {
		w.logger.Error("settings write failed", log.String("path", w.path), log.Err(err))
		return OutcomeFailed, err
	}

	w.logger.Info("settings written",
		log.String("path", w.path),
		log.Bool("overwrite", exists),
		log.Int("bytes", len(data)),
		log.String("reference_image", w.params.ReferenceImage),
		log.Float64("conv_lim", w.params.ConvergenceLimit),
		log.Ints("mesh_size", w.model.MeshSize[:]...),
	)
	return OutcomeWritten, nil
}

// Read loads a container file written by a Writer.
func Read(path string) (settings.ParameterSet, settings.ModelSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, errors.WithStack(&IOError{Op: "read", Path: path, Err: err})
	}
	return Decode(data)
}
