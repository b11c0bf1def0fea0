package settings

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultParameterSet(t *testing.T) {
	p := DefaultParameterSet()

	if p.Analysis != "correlation" {
		t.Errorf("Analysis = %v, want correlation", p.Analysis)
	}
	if p.ReferenceImage != "ref_im.raw" {
		t.Errorf("ReferenceImage = %v, want ref_im.raw", p.ReferenceImage)
	}
	if p.DeformedImage != "def_im.raw" {
		t.Errorf("DeformedImage = %v, want def_im.raw", p.DeformedImage)
	}
	if p.ResultFile != "out.res" {
		t.Errorf("ResultFile = %v, want out.res", p.ResultFile)
	}
	if p.ROI != [6]int{0, -1, 0, -1, 0, -1} {
		t.Errorf("ROI = %v, want [0 -1 0 -1 0 -1]", p.ROI)
	}
	if p.PixelSize != 1.0 {
		t.Errorf("PixelSize = %v, want 1", p.PixelSize)
	}
	if p.Restart != 0 {
		t.Errorf("Restart = %v, want 0", p.Restart)
	}
	if p.ConvergenceLimit != 1e-4 {
		t.Errorf("ConvergenceLimit = %v, want 1e-4", p.ConvergenceLimit)
	}
	if p.IterMax != 30 {
		t.Errorf("IterMax = %v, want 30", p.IterMax)
	}
	if p.RegularizationType != "tiko" {
		t.Errorf("RegularizationType = %v, want tiko", p.RegularizationType)
	}
	if p.RegularizationParam != 16 {
		t.Errorf("RegularizationParam = %v, want 16", p.RegularizationParam)
	}
	if p.PSample != 1 {
		t.Errorf("PSample = %v, want 1", p.PSample)
	}
	if p.HasImageSize() {
		t.Errorf("ImageSize = %v, want absent", p.ImageSize)
	}
}

func TestNewParameterSet_RawImageSize(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ParameterOption
		wantErr error
	}{
		{
			name:    "raw without image size",
			opts:    []ParameterOption{WithReferenceImage("ref_im.raw")},
			wantErr: ErrImageSizeRequired,
		},
		{
			name:    "raw extension is case insensitive",
			opts:    []ParameterOption{WithReferenceImage("scan/REF.RAW")},
			wantErr: ErrImageSizeRequired,
		},
		{
			name: "raw with image size",
			opts: []ParameterOption{WithReferenceImage("ref_im.raw"), WithImageSize(512, 512, 256)},
		},
		{
			name: "tif without image size",
			opts: []ParameterOption{WithReferenceImage("ref.tif")},
		},
		{
			name:    "partial image size",
			opts:    []ParameterOption{WithReferenceImage("ref.tif"), WithImageSize(512, 0, 256)},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParameterSet(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewParameterSet() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewParameterSet() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not match ErrInvalidConfig", err)
			}
		})
	}
}

func TestParameterSet_Validate(t *testing.T) {
	valid := func() ParameterSet {
		p := DefaultParameterSet()
		p.ReferenceImage = "ref.tif"
		return p
	}

	tests := []struct {
		name    string
		mutate  func(*ParameterSet)
		wantErr bool
	}{
		{name: "defaults with tif", mutate: func(p *ParameterSet) {}},
		{name: "unknown analysis", mutate: func(p *ParameterSet) { p.Analysis = "carrot_cake" }, wantErr: true},
		{name: "empty reference image", mutate: func(p *ParameterSet) { p.ReferenceImage = "" }, wantErr: true},
		{name: "empty deformed image", mutate: func(p *ParameterSet) { p.DeformedImage = "" }, wantErr: true},
		{name: "empty result file is allowed", mutate: func(p *ParameterSet) { p.ResultFile = "" }},
		{name: "bounded roi", mutate: func(p *ParameterSet) { p.ROI = [6]int{10, 20, 0, 5, 3, 3} }},
		{name: "roi end before start", mutate: func(p *ParameterSet) { p.ROI = [6]int{10, 5, 0, -1, 0, -1} }, wantErr: true},
		{name: "roi negative start", mutate: func(p *ParameterSet) { p.ROI = [6]int{0, -1, -1, -1, 0, -1} }, wantErr: true},
		{name: "roi end below -1", mutate: func(p *ParameterSet) { p.ROI = [6]int{0, -1, 0, -1, 0, -2} }, wantErr: true},
		{name: "zero pixel size", mutate: func(p *ParameterSet) { p.PixelSize = 0 }, wantErr: true},
		{name: "nan pixel size", mutate: func(p *ParameterSet) { p.PixelSize = math.NaN() }, wantErr: true},
		{name: "negative restart", mutate: func(p *ParameterSet) { p.Restart = -1 }, wantErr: true},
		{name: "resume run", mutate: func(p *ParameterSet) { p.Restart = 12 }},
		{name: "zero convergence limit", mutate: func(p *ParameterSet) { p.ConvergenceLimit = 0 }, wantErr: true},
		{name: "zero iter max", mutate: func(p *ParameterSet) { p.IterMax = 0 }, wantErr: true},
		{name: "unknown regularization", mutate: func(p *ParameterSet) { p.RegularizationType = "lasso" }, wantErr: true},
		{name: "equilibrium gap", mutate: func(p *ParameterSet) { p.RegularizationType = "equi" }},
		{name: "negative regularization param", mutate: func(p *ParameterSet) { p.RegularizationParam = -3 }},
		{name: "infinite regularization param", mutate: func(p *ParameterSet) { p.RegularizationParam = math.Inf(1) }, wantErr: true},
		{name: "zero psample", mutate: func(p *ParameterSet) { p.PSample = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error but got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not match ErrInvalidConfig", err)
			}
		})
	}
}

func TestParameterSet_ValidateReportsAllViolations(t *testing.T) {
	p := DefaultParameterSet()
	p.IterMax = 0
	p.PSample = 0

	err := p.Validate()
	if err == nil {
		t.Fatal("Validate() expected error but got nil")
	}
	for _, want := range []string{"iter max", "psample", "image size is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestParameterSet_CopyDoesNotAlias(t *testing.T) {
	p, err := NewParameterSet(WithReferenceImage("ref.raw"), WithImageSize(8, 8, 8))
	if err != nil {
		t.Fatalf("NewParameterSet() error = %v", err)
	}

	cp := p
	p.ROI[1] = 99
	p.ImageSize[0] = 1

	if cp.ROI[1] != -1 || cp.ImageSize[0] != 8 {
		t.Errorf("copy changed with original: %+v", cp)
	}
}

func TestParameterSet_String(t *testing.T) {
	p, err := NewParameterSet(WithReferenceImage("ref.tif"), WithDeformedImage("def.tif"))
	if err != nil {
		t.Fatalf("NewParameterSet() error = %v", err)
	}

	want := "-------------PARAMETERS---------------\n" +
		"Analysis: correlation\n" +
		"Reference image: ref.tif\n" +
		"Deformed image: def.tif\n" +
		"Result file: out.res\n" +
		"ROI: [0, -1, 0, -1, 0, -1]\n" +
		"Pixel size: 1\n" +
		"Restart: 0\n" +
		"Convergence limit: 0.0001\n" +
		"Maximum iterations: 30\n" +
		"Regularization type: tiko\n" +
		"Regularization parameter: 16\n" +
		"Pixel skip: 1\n" +
		"Image size: []\n"

	if got := p.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	q := p
	if p.String() != q.String() {
		t.Error("String() differs between equal values")
	}
}

func TestParameterSet_StringImageSize(t *testing.T) {
	p, err := NewParameterSet(WithImageSize(100, 200, 300))
	if err != nil {
		t.Fatalf("NewParameterSet() error = %v", err)
	}
	if !strings.HasSuffix(p.String(), "Image size: [100, 200, 300]\n") {
		t.Errorf("String() = %q, want image size line last", p.String())
	}
}

func TestKnownListsAreCopies(t *testing.T) {
	a := KnownAnalyses()
	a[0] = "mutated"
	if KnownAnalyses()[0] != AnalysisCorrelation {
		t.Error("KnownAnalyses() exposes internal state")
	}
	if len(KnownRegularizations()) != 2 {
		t.Errorf("KnownRegularizations() = %v, want 2 entries", KnownRegularizations())
	}
}
