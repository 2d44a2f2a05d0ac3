package metrics

import (
	"github.com/YuminosukeSato/gosvm/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// AccuracyScore は正解率（正しく分類されたサンプルの割合）を計算する
func AccuracyScore(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, yPred.Len(), 0)
	}

	var correct int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AccuracyScoreMatrix は行列形式の入力に対して正解率を計算する
func AccuracyScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	// 入力検証
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("AccuracyScoreMatrix", "empty matrix")
	}

	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("AccuracyScoreMatrix", rTrue, rPred, 0)
	}

	if cTrue != 1 {
		return 0, errors.NewValueError("AccuracyScoreMatrix", "must be a column vector (n×1 matrix)")
	}

	// VecDenseに変換して正解率を計算
	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)

	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return AccuracyScore(yTrueVec, yPredVec)
}

// ZeroOneLoss は誤分類率（1 − 正解率）を計算する
func ZeroOneLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := AccuracyScore(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// BinaryConfusion は二値分類（ラベル {-1, +1}）の混同行列
type BinaryConfusion struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// ConfusionMatrixBinary はラベル {-1, +1} の混同行列を計算する
// +1 を陽性クラスとして扱う
func ConfusionMatrixBinary(yTrue, yPred *mat.VecDense) (*BinaryConfusion, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrixBinary", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrixBinary", n, yPred.Len(), 0)
	}

	cm := &BinaryConfusion{}
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		if t != 1 && t != -1 {
			return nil, errors.NewValueError("ConfusionMatrixBinary", "labels must be -1 or +1")
		}
		if p != 1 && p != -1 {
			return nil, errors.NewValueError("ConfusionMatrixBinary", "labels must be -1 or +1")
		}
		switch {
		case t == 1 && p == 1:
			cm.TruePositive++
		case t == -1 && p == -1:
			cm.TrueNegative++
		case t == -1 && p == 1:
			cm.FalsePositive++
		default:
			cm.FalseNegative++
		}
	}
	return cm, nil
}
