package container

import (
	"bytes"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/dvc-tools/dvcsettings/pkg/settings"
)

func mustParams(t *testing.T, opts ...settings.ParameterOption) settings.ParameterSet {
	t.Helper()
	p, err := settings.NewParameterSet(opts...)
	if err != nil {
		t.Fatalf("NewParameterSet() error = %v", err)
	}
	return p
}

func mustModel(t *testing.T, opts ...settings.ModelOption) settings.ModelSet {
	t.Helper()
	m, err := settings.NewModelSet(opts...)
	if err != nil {
		t.Fatalf("NewModelSet() error = %v", err)
	}
	return m
}

func TestEncode_Layout(t *testing.T) {
	p := mustParams(t, settings.WithImageSize(64, 32, 16))
	m := mustModel(t)

	data, err := Encode(p, m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	raw := bson.Raw(data)

	entries := []struct {
		path []string
		typ  bsontype.Type
	}{
		{[]string{"param", "analysis"}, bsontype.String},
		{[]string{"param", "reference_image"}, bsontype.String},
		{[]string{"param", "deformed_image"}, bsontype.String},
		{[]string{"param", "result_file"}, bsontype.String},
		{[]string{"param", "roi"}, bsontype.Array},
		{[]string{"param", "pixel_size"}, bsontype.Double},
		{[]string{"param", "restart"}, bsontype.Int64},
		{[]string{"param", "conv_lim"}, bsontype.Double},
		{[]string{"param", "iter_max"}, bsontype.Int64},
		{[]string{"param", "regularization_type"}, bsontype.String},
		{[]string{"param", "regularization_param"}, bsontype.Double},
		{[]string{"param", "psample"}, bsontype.Int64},
		{[]string{"param", "image_size"}, bsontype.Array},
		{[]string{"model", "basis"}, bsontype.String},
		{[]string{"model", "nscale"}, bsontype.Int64},
		{[]string{"model", "mesh_size"}, bsontype.Array},
	}

	for _, e := range entries {
		v, err := raw.LookupErr(e.path...)
		if err != nil {
			t.Errorf("entry %v missing: %v", e.path, err)
			continue
		}
		if v.Type != e.typ {
			t.Errorf("entry %v type = %s, want %s", e.path, v.Type, e.typ)
		}
	}

	var roi []int64
	if err := raw.Lookup("param", "roi").Unmarshal(&roi); err != nil {
		t.Fatalf("unmarshal roi: %v", err)
	}
	if len(roi) != 6 || roi[1] != -1 {
		t.Errorf("roi = %v, want [0 -1 0 -1 0 -1]", roi)
	}
	if got := raw.Lookup("param", "iter_max").Int64(); got != 30 {
		t.Errorf("iter_max = %d, want 30", got)
	}
}

func TestEncode_OmitsAbsentImageSize(t *testing.T) {
	data, err := Encode(mustParams(t, settings.WithReferenceImage("ref.tif")), mustModel(t))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := bson.Raw(data).LookupErr("param", "image_size"); err == nil {
		t.Error("image_size written for a non-raw image without a size")
	}
}

func TestEncode_Deterministic(t *testing.T) {
	p := mustParams(t, settings.WithImageSize(10, 10, 10))
	m := mustModel(t)

	a, err := Encode(p, m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := Encode(p, m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Encode() not deterministic")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		params settings.ParameterSet
		model  settings.ModelSet
	}{
		{
			name:   "raw with size",
			params: mustParams(t, settings.WithImageSize(512, 512, 300)),
			model:  mustModel(t),
		},
		{
			name:   "tif without size",
			params: mustParams(t, settings.WithReferenceImage("ref.tif"), settings.WithDeformedImage("def.tif")),
			model:  mustModel(t, settings.WithNScale(1)),
		},
		{
			name: "every field changed",
			params: mustParams(t,
				settings.WithReferenceImage("/data/scan_000.RAW"),
				settings.WithDeformedImage("/data/scan_010.raw"),
				settings.WithResultFile("/data/out/scan_010.res"),
				settings.WithROI([6]int{10, 400, 0, -1, 25, 250}),
				settings.WithPixelSize(6.5e-3),
				settings.WithRestart(4),
				settings.WithConvergenceLimit(5e-5),
				settings.WithIterMax(200),
				settings.WithRegularization(settings.RegularizationEquilibriumGap, 0.25),
				settings.WithPSample(2),
				settings.WithImageSize(1024, 1024, 800),
			),
			model: mustModel(t, settings.WithNScale(5), settings.WithMeshSize(8, 12, 24)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.params, tt.model)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			p, m, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p != tt.params {
				t.Errorf("params = %+v, want %+v", p, tt.params)
			}
			if m != tt.model {
				t.Errorf("model = %+v, want %+v", m, tt.model)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	good := func() bson.M {
		return bson.M{
			"param": bson.M{
				"analysis":             "correlation",
				"reference_image":      "ref.tif",
				"deformed_image":       "def.tif",
				"result_file":          "out.res",
				"roi":                  bson.A{0, -1, 0, -1, 0, -1},
				"pixel_size":           1.0,
				"restart":              int32(0),
				"conv_lim":             1e-4,
				"iter_max":             int32(30),
				"regularization_type":  "tiko",
				"regularization_param": int32(16),
				"psample":              int32(1),
			},
			"model": bson.M{
				"basis":     "fem",
				"nscale":    int32(3),
				"mesh_size": bson.A{16, 16, 16},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr error
	}{
		{name: "int32 entries accepted", mutate: func(bson.M) {}},
		{name: "missing model group", mutate: func(d bson.M) { delete(d, "model") }, wantErr: ErrMalformed},
		{name: "group not a document", mutate: func(d bson.M) { d["param"] = "x" }, wantErr: ErrMalformed},
		{name: "missing entry", mutate: func(d bson.M) { delete(d["param"].(bson.M), "iter_max") }, wantErr: ErrMalformed},
		{name: "wrong string type", mutate: func(d bson.M) { d["model"].(bson.M)["basis"] = int32(1) }, wantErr: ErrMalformed},
		{name: "wrong integer type", mutate: func(d bson.M) { d["param"].(bson.M)["psample"] = "one" }, wantErr: ErrMalformed},
		{name: "roi too short", mutate: func(d bson.M) { d["param"].(bson.M)["roi"] = bson.A{0, -1} }, wantErr: ErrMalformed},
		{name: "roi not an array", mutate: func(d bson.M) { d["param"].(bson.M)["roi"] = int32(0) }, wantErr: ErrMalformed},
		{name: "raw without image size", mutate: func(d bson.M) { d["param"].(bson.M)["reference_image"] = "ref.raw" }, wantErr: settings.ErrImageSizeRequired},
		{name: "invalid value", mutate: func(d bson.M) { d["model"].(bson.M)["nscale"] = int32(0) }, wantErr: settings.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := good()
			tt.mutate(doc)
			data, err := bson.Marshal(doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			_, _, err = Decode(data)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Decode() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, _, err := Decode([]byte("not a bson document"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode() error = %v, want ErrMalformed", err)
	}
}
