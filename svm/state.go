package svm

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/core/model"
	"github.com/YuminosukeSato/gosvm/kernel"
	"github.com/YuminosukeSato/gosvm/pkg/errors"
)

// SVCState is the gob-serializable snapshot of a fitted classifier. The
// kernel is stored by name plus parameters, not as an interface value, so
// decoding never needs gob type registration.
type SVCState struct {
	KernelName string
	Sigma      float64 // kernel length scale, meaningful for "rbf" only
	C          float64

	NSupport  int
	NFeatures int
	SupportX  []float64 // row-major NSupport×NFeatures
	SupportY  []float64
	Alpha     []float64
	Intercept float64
}

// ExportState snapshots the fitted model. Fails with NotFittedError before
// a successful Fit.
func (s *SVC) ExportState() (*SVCState, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("SVC", "ExportState")
	}

	nsv := s.alpha.Len()
	st := &SVCState{
		KernelName: s.kernel.Name(),
		C:          s.c,
		NSupport:   nsv,
		NFeatures:  s.nFeatures,
		SupportX:   make([]float64, nsv*s.nFeatures),
		SupportY:   make([]float64, nsv),
		Alpha:      make([]float64, nsv),
		Intercept:  s.intercept,
	}
	if rbf, ok := s.kernel.(*kernel.RBF); ok {
		st.Sigma = rbf.Sigma
	}
	for i := 0; i < nsv; i++ {
		for j := 0; j < s.nFeatures; j++ {
			st.SupportX[i*s.nFeatures+j] = s.supportX.At(i, j)
		}
		st.SupportY[i] = s.supportY.AtVec(i)
		st.Alpha[i] = s.alpha.AtVec(i)
	}
	return st, nil
}

// ImportState restores a fitted model from a snapshot, replacing any prior
// state wholesale.
func (s *SVC) ImportState(st *SVCState) error {
	if st.NSupport <= 0 || st.NFeatures <= 0 {
		return errors.NewValueError("SVC.ImportState", "state has no support vectors")
	}
	if len(st.SupportX) != st.NSupport*st.NFeatures ||
		len(st.SupportY) != st.NSupport ||
		len(st.Alpha) != st.NSupport {
		return errors.NewDimensionError("SVC.ImportState", st.NSupport, len(st.Alpha), 0)
	}

	var k kernel.Kernel
	switch st.KernelName {
	case "rbf":
		rbf, err := kernel.NewRBF(st.Sigma)
		if err != nil {
			return err
		}
		k = rbf
	case "linear":
		k = kernel.NewLinear()
	default:
		return errors.NewValueError("SVC.ImportState", "unknown kernel: "+st.KernelName)
	}

	supportX := mat.NewDense(st.NSupport, st.NFeatures, nil)
	for i := 0; i < st.NSupport; i++ {
		for j := 0; j < st.NFeatures; j++ {
			supportX.Set(i, j, st.SupportX[i*st.NFeatures+j])
		}
	}

	s.kernel = k
	s.c = st.C
	s.supportX = supportX
	s.supportY = mat.NewVecDense(st.NSupport, append([]float64(nil), st.SupportY...))
	s.alpha = mat.NewVecDense(st.NSupport, append([]float64(nil), st.Alpha...))
	s.intercept = st.Intercept
	s.nFeatures = st.NFeatures
	s.state.SetDimensions(st.NFeatures, st.NSupport)
	s.state.SetFitted()
	return nil
}

// Save writes the fitted model to a file in gob format.
func (s *SVC) Save(filename string) error {
	st, err := s.ExportState()
	if err != nil {
		return err
	}
	return model.SaveModel(st, filename)
}

// SaveToWriter writes the fitted model to w in gob format.
func (s *SVC) SaveToWriter(w io.Writer) error {
	st, err := s.ExportState()
	if err != nil {
		return err
	}
	return model.SaveModelToWriter(st, w)
}

// Load restores a model previously written by Save.
func (s *SVC) Load(filename string) error {
	var st SVCState
	if err := model.LoadModel(&st, filename); err != nil {
		return err
	}
	return s.ImportState(&st)
}

// LoadFromReader restores a model previously written by SaveToWriter.
func (s *SVC) LoadFromReader(r io.Reader) error {
	var st SVCState
	if err := model.LoadModelFromReader(&st, r); err != nil {
		return err
	}
	return s.ImportState(&st)
}
