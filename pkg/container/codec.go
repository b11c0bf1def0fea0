package container

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/dvc-tools/dvcsettings/pkg/settings"
)

// Group names.
const (
	GroupParam = "param"
	GroupModel = "model"
)

// Entry names in the param group.
const (
	KeyAnalysis            = "analysis"
	KeyReferenceImage      = "reference_image"
	KeyDeformedImage       = "deformed_image"
	KeyResultFile          = "result_file"
	KeyROI                 = "roi"
	KeyPixelSize           = "pixel_size"
	KeyRestart             = "restart"
	KeyConvergenceLimit    = "conv_lim"
	KeyIterMax             = "iter_max"
	KeyRegularizationType  = "regularization_type"
	KeyRegularizationParam = "regularization_param"
	KeyPSample             = "psample"
	KeyImageSize           = "image_size"
)

// Entry names in the model group.
const (
	KeyBasis    = "basis"
	KeyNScale   = "nscale"
	KeyMeshSize = "mesh_size"
)

// Encode serializes both sets into a container document. Entries are written
// in a fixed order, so equal inputs give identical bytes.
func Encode(params settings.ParameterSet, model settings.ModelSet) ([]byte, error) {
	doc := bson.D{
		{Key: GroupParam, Value: paramDocument(params)},
		{Key: GroupModel, Value: modelDocument(model)},
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode settings")
	}
	return data, nil
}

func paramDocument(p settings.ParameterSet) bson.D {
	d := bson.D{
		{Key: KeyAnalysis, Value: p.Analysis},
		{Key: KeyReferenceImage, Value: p.ReferenceImage},
		{Key: KeyDeformedImage, Value: p.DeformedImage},
		{Key: KeyResultFile, Value: p.ResultFile},
		{Key: KeyROI, Value: int64Array(p.ROI[:])},
		{Key: KeyPixelSize, Value: p.PixelSize},
		{Key: KeyRestart, Value: int64(p.Restart)},
		{Key: KeyConvergenceLimit, Value: p.ConvergenceLimit},
		{Key: KeyIterMax, Value: int64(p.IterMax)},
		{Key: KeyRegularizationType, Value: p.RegularizationType},
		{Key: KeyRegularizationParam, Value: p.RegularizationParam},
		{Key: KeyPSample, Value: int64(p.PSample)},
	}
	if p.HasImageSize() {
		d = append(d, bson.E{Key: KeyImageSize, Value: int64Array(p.ImageSize[:])})
	}
	return d
}

func modelDocument(m settings.ModelSet) bson.D {
	return bson.D{
		{Key: KeyBasis, Value: m.Basis},
		{Key: KeyNScale, Value: int64(m.NScale)},
		{Key: KeyMeshSize, Value: int64Array(m.MeshSize[:])},
	}
}

func int64Array(vs []int) bson.A {
	a := make(bson.A, len(vs))
	for i, v := range vs {
		a[i] = int64(v)
	}
	return a
}

// Decode parses a container document and validates the result the same way
// the settings factories do.
func Decode(data []byte) (settings.ParameterSet, settings.ModelSet, error) {
	raw := bson.Raw(data)
	if err := raw.Validate(); err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, errors.Wrapf(ErrMalformed, "invalid document: %v", err)
	}

	pr, err := group(raw, GroupParam)
	if err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, err
	}
	mr, err := group(raw, GroupModel)
	if err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, err
	}

	var p settings.ParameterSet
	p.Analysis = pr.str(KeyAnalysis)
	p.ReferenceImage = pr.str(KeyReferenceImage)
	p.DeformedImage = pr.str(KeyDeformedImage)
	p.ResultFile = pr.str(KeyResultFile)
	copy(p.ROI[:], pr.ints(KeyROI, len(p.ROI)))
	p.PixelSize = pr.number(KeyPixelSize)
	p.Restart = pr.integer(KeyRestart)
	p.ConvergenceLimit = pr.number(KeyConvergenceLimit)
	p.IterMax = pr.integer(KeyIterMax)
	p.RegularizationType = pr.str(KeyRegularizationType)
	p.RegularizationParam = pr.number(KeyRegularizationParam)
	p.PSample = pr.integer(KeyPSample)
	if pr.has(KeyImageSize) {
		copy(p.ImageSize[:], pr.ints(KeyImageSize, len(p.ImageSize)))
	}

	var m settings.ModelSet
	m.Basis = mr.str(KeyBasis)
	m.NScale = mr.integer(KeyNScale)
	copy(m.MeshSize[:], mr.ints(KeyMeshSize, len(m.MeshSize)))

	if pr.err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, pr.err
	}
	if mr.err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, mr.err
	}
	if err := p.Validate(); err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, err
	}
	if err := m.Validate(); err != nil {
		return settings.ParameterSet{}, settings.ModelSet{}, err
	}
	return p, m, nil
}

// entryReader reads typed entries from one group and keeps the first error.
type entryReader struct {
	name string
	doc  bson.Raw
	err  error
}

func group(raw bson.Raw, name string) (*entryReader, error) {
	v, err := raw.LookupErr(name)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "missing group %q", name)
	}
	doc, ok := v.DocumentOK()
	if !ok {
		return nil, errors.Wrapf(ErrMalformed, "group %q is a %s, not a document", name, v.Type)
	}
	return &entryReader{name: name, doc: doc}, nil
}

func (r *entryReader) has(key string) bool {
	_, err := r.doc.LookupErr(key)
	return err == nil
}

func (r *entryReader) lookup(key string) (bson.RawValue, bool) {
	if r.err != nil {
		return bson.RawValue{}, false
	}
	v, err := r.doc.LookupErr(key)
	if err != nil {
		r.err = errors.Wrapf(ErrMalformed, "missing entry %s.%s", r.name, key)
		return bson.RawValue{}, false
	}
	return v, true
}

func (r *entryReader) fail(key, want string, v bson.RawValue) {
	r.err = errors.Wrapf(ErrMalformed, "entry %s.%s is a %s, want %s", r.name, key, v.Type, want)
}

func (r *entryReader) str(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		return ""
	}
	s, ok := v.StringValueOK()
	if !ok {
		r.fail(key, "string", v)
	}
	return s
}

func (r *entryReader) integer(key string) int {
	v, ok := r.lookup(key)
	if !ok {
		return 0
	}
	if i, ok := v.Int64OK(); ok {
		return int(i)
	}
	if i, ok := v.Int32OK(); ok {
		return int(i)
	}
	r.fail(key, "integer", v)
	return 0
}

// number accepts integer entries too; older writers stored whole-number
// weights such as regularization_param as integers.
func (r *entryReader) number(key string) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return 0
	}
	if f, ok := v.DoubleOK(); ok {
		return f
	}
	if i, ok := v.Int64OK(); ok {
		return float64(i)
	}
	if i, ok := v.Int32OK(); ok {
		return float64(i)
	}
	r.fail(key, "number", v)
	return 0
}

func (r *entryReader) ints(key string, n int) []int {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	if v.Type != bsontype.Array {
		r.fail(key, "array", v)
		return nil
	}
	var vals []int64
	if err := v.Unmarshal(&vals); err != nil {
		r.err = errors.Wrapf(ErrMalformed, "entry %s.%s: %v", r.name, key, err)
		return nil
	}
	if len(vals) != n {
		r.err = errors.Wrapf(ErrMalformed, "entry %s.%s has %d values, want %d", r.name, key, len(vals), n)
		return nil
	}
	out := make([]int, n)
	for i, x := range vals {
		out[i] = int(x)
	}
	return out
}
