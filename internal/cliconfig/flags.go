package cliconfig

import (
	pflag "github.com/spf13/pflag"
)

// listFlags holds list-valued flags until they are copied into the fixed-size
// arrays of a Config.
type listFlags struct {
	roi       []int
	imageSize []int
	meshSize  []int
}

// RegisterFlags binds one flag per setting to cfg. The returned function must
// be called after parsing to copy list flags into cfg.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) func() error {
	p := &cfg.Params
	m := &cfg.Model
	lists := &listFlags{}

	fs.StringVar(&cfg.Out, "out", cfg.Out, "container file to write")
	fs.BoolVarP(&cfg.Yes, "yes", "y", cfg.Yes, "overwrite an existing file without asking")

	fs.StringVar(&p.Analysis, "analysis", p.Analysis, "analysis mode")
	fs.StringVar(&p.ReferenceImage, "ref-im", p.ReferenceImage, "reference volume; a .raw file needs --image-size")
	fs.StringVar(&p.DeformedImage, "def-im", p.DeformedImage, "deformed volume")
	fs.StringVar(&p.ResultFile, "res-file", p.ResultFile, "result file written by the analysis engine")
	fs.IntSliceVar(&lists.roi, "roi", append([]int(nil), p.ROI[:]...), "region of interest x0,x1,y0,y1,z0,z1 (-1 = to end of axis)")
	fs.Float64Var(&p.PixelSize, "pixel-size", p.PixelSize, "physical size of one voxel")
	fs.IntVar(&p.Restart, "restart", p.Restart, "iteration to resume from (0 = fresh run)")
	fs.Float64Var(&p.ConvergenceLimit, "conv-lim", p.ConvergenceLimit, "convergence threshold")
	fs.IntVar(&p.IterMax, "iter-max", p.IterMax, "maximum iterations")
	fs.StringVar(&p.RegularizationType, "reg-type", p.RegularizationType, "regularization type (tiko, equi)")
	fs.Float64Var(&p.RegularizationParam, "reg-param", p.RegularizationParam, "regularization weight")
	fs.IntVar(&p.PSample, "psample", p.PSample, "pixel subsampling stride")
	fs.IntSliceVar(&lists.imageSize, "image-size", nil, "volume size nx,ny,nz (required for raw images)")

	fs.StringVar(&m.Basis, "basis", m.Basis, "basis type")
	fs.IntVar(&m.NScale, "nscale", m.NScale, "coarse-graining levels")
	fs.IntSliceVar(&lists.meshSize, "mesh-size", append([]int(nil), m.MeshSize[:]...), "mesh cell size nx,ny,nz in voxels")

	return func() error {
		if fs.Changed("roi") {
			if err := copyInts("roi", lists.roi, p.ROI[:]); err != nil {
				return err
			}
		}
		if fs.Changed("image-size") {
			if err := copyInts("image-size", lists.imageSize, p.ImageSize[:]); err != nil {
				return err
			}
		}
		if fs.Changed("mesh-size") {
			if err := copyInts("mesh-size", lists.meshSize, m.MeshSize[:]); err != nil {
				return err
			}
		}
		return nil
	}
}

// ChangedFlags returns the names of flags set on the command line.
func ChangedFlags(fs *pflag.FlagSet) map[string]bool {
	changed := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}
