package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gosvm/core/model"
	"github.com/YuminosukeSato/gosvm/pkg/errors"
)

// LabelBinarizer は任意の二クラスラベルをSVM双対形式が要求する
// バイポーラ符号 {-1, +1} に写像する変換器
//
// 小さい方のラベル値が -1、大きい方が +1 に対応する。
// {0, 1} 符号のデータセットをそのまま学習に渡すための外部コラボレータ。
type LabelBinarizer struct {
	state *model.StateManager

	// NegClass は -1 に写像される元のラベル値
	NegClass float64

	// PosClass は +1 に写像される元のラベル値
	PosClass float64
}

// NewLabelBinarizer は新しいLabelBinarizerを作成する
func NewLabelBinarizer() *LabelBinarizer {
	return &LabelBinarizer{
		state: model.NewStateManager(),
	}
}

// Fit はラベル列から2つのクラス値を学習する
// クラス数が2以外の場合はエラーを返す
func (l *LabelBinarizer) Fit(y mat.Matrix) error {
	r, c := y.Dims()
	if r == 0 {
		return errors.NewModelError("LabelBinarizer.Fit", "empty data", errors.ErrEmptyData)
	}
	if c != 1 {
		return errors.NewValueError("LabelBinarizer.Fit", "y must be a column vector")
	}

	seen := make(map[float64]struct{}, 2)
	for i := 0; i < r; i++ {
		seen[y.At(i, 0)] = struct{}{}
		if len(seen) > 2 {
			return errors.NewValueError("LabelBinarizer.Fit",
				fmt.Sprintf("expected exactly 2 classes, found more than 2 at row %d", i))
		}
	}
	if len(seen) != 2 {
		return errors.NewValueError("LabelBinarizer.Fit",
			fmt.Sprintf("expected exactly 2 classes, got %d", len(seen)))
	}

	classes := make([]float64, 0, 2)
	for v := range seen {
		classes = append(classes, v)
	}
	if classes[0] > classes[1] {
		classes[0], classes[1] = classes[1], classes[0]
	}

	l.NegClass = classes[0]
	l.PosClass = classes[1]
	l.state.SetDimensions(1, r)
	l.state.SetFitted()
	return nil
}

// Transform はラベル列を {-1, +1} に変換する
// 学習時に見ていないラベル値はエラーになる
func (l *LabelBinarizer) Transform(y mat.Matrix) (*mat.Dense, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("LabelBinarizer", "Transform")
	}

	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError("LabelBinarizer.Transform", "y must be a column vector")
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		switch v := y.At(i, 0); v {
		case l.NegClass:
			out.Set(i, 0, -1)
		case l.PosClass:
			out.Set(i, 0, 1)
		default:
			return nil, errors.NewValueError("LabelBinarizer.Transform",
				fmt.Sprintf("unknown label %v at row %d", v, i))
		}
	}
	return out, nil
}

// FitTransform はラベルを学習し、同じラベル列を変換する
func (l *LabelBinarizer) FitTransform(y mat.Matrix) (*mat.Dense, error) {
	if err := l.Fit(y); err != nil {
		return nil, err
	}
	return l.Transform(y)
}

// InverseTransform は {-1, +1} 符号のラベル列を元のクラス値に戻す
// 0 以上の値は +1 側として扱う（予測の符号規約と一致させる）
func (l *LabelBinarizer) InverseTransform(y mat.Matrix) (*mat.Dense, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("LabelBinarizer", "InverseTransform")
	}

	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError("LabelBinarizer.InverseTransform", "y must be a column vector")
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if y.At(i, 0) >= 0 {
			out.Set(i, 0, l.PosClass)
		} else {
			out.Set(i, 0, l.NegClass)
		}
	}
	return out, nil
}

// IsFitted は変換器が学習済みかどうかを返す
func (l *LabelBinarizer) IsFitted() bool {
	return l.state.IsFitted()
}
