package cliconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Pointer and slice fields are nil
// when the key is absent, so explicit zeros still apply.
type FileConfig struct {
	Out   *string      `toml:"out" yaml:"out"`
	Param ParamSection `toml:"param" yaml:"param"`
	Model ModelSection `toml:"model" yaml:"model"`
}

// ParamSection mirrors settings.ParameterSet using container entry names.
type ParamSection struct {
	Analysis            *string  `toml:"analysis" yaml:"analysis"`
	ReferenceImage      *string  `toml:"reference_image" yaml:"reference_image"`
	DeformedImage       *string  `toml:"deformed_image" yaml:"deformed_image"`
	ResultFile          *string  `toml:"result_file" yaml:"result_file"`
	ROI                 []int    `toml:"roi" yaml:"roi"`
	PixelSize           *float64 `toml:"pixel_size" yaml:"pixel_size"`
	Restart             *int     `toml:"restart" yaml:"restart"`
	ConvergenceLimit    *float64 `toml:"convergence_limit" yaml:"convergence_limit"`
	ConvLim             *float64 `toml:"conv_lim" yaml:"conv_lim"`
	IterMax             *int     `toml:"iter_max" yaml:"iter_max"`
	RegularizationType  *string  `toml:"regularization_type" yaml:"regularization_type"`
	RegularizationParam *float64 `toml:"regularization_param" yaml:"regularization_param"`
	PSample             *int     `toml:"psample" yaml:"psample"`
	ImageSize           []int    `toml:"image_size" yaml:"image_size"`
}

// ModelSection mirrors settings.ModelSet.
type ModelSection struct {
	Basis    *string `toml:"basis" yaml:"basis"`
	NScale   *int    `toml:"nscale" yaml:"nscale"`
	MeshSize []int   `toml:"mesh_size" yaml:"mesh_size"`
}

// LoadFileConfig reads a settings file. Files ending in .yaml or .yml are
// parsed as YAML, anything else as TOML. Unknown keys are rejected.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fc, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)
	p := &cfg.Params
	m := &cfg.Model

	s.setString("out", fc.Out, &cfg.Out)

	s.setString("analysis", fc.Param.Analysis, &p.Analysis)
	s.setString("ref-im", fc.Param.ReferenceImage, &p.ReferenceImage)
	s.setString("def-im", fc.Param.DeformedImage, &p.DeformedImage)
	s.setString("res-file", fc.Param.ResultFile, &p.ResultFile)
	s.setFloat("pixel-size", fc.Param.PixelSize, &p.PixelSize)
	s.setInt("restart", fc.Param.Restart, &p.Restart)
	s.setFloat("conv-lim", fc.Param.ConvergenceLimit, &p.ConvergenceLimit)
	s.setFloat("conv-lim", fc.Param.ConvLim, &p.ConvergenceLimit)
	s.setInt("iter-max", fc.Param.IterMax, &p.IterMax)
	s.setString("reg-type", fc.Param.RegularizationType, &p.RegularizationType)
	s.setFloat("reg-param", fc.Param.RegularizationParam, &p.RegularizationParam)
	s.setInt("psample", fc.Param.PSample, &p.PSample)

	s.setString("basis", fc.Model.Basis, &m.Basis)
	s.setInt("nscale", fc.Model.NScale, &m.NScale)

	if err := s.setInts("roi", fc.Param.ROI, p.ROI[:]); err != nil {
		return err
	}
	if err := s.setInts("image-size", fc.Param.ImageSize, p.ImageSize[:]); err != nil {
		return err
	}
	if err := s.setInts("mesh-size", fc.Model.MeshSize, m.MeshSize[:]); err != nil {
		return err
	}
	return nil
}

// LoadConfig builds a Config from the defaults and the settings file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	fc, err := LoadFileConfig(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		return cfg, err
	}
	return cfg, nil
}
