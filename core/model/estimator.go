package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は評価スコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は予測精度（分類では正解率）を計算する
	Score(X, y mat.Matrix) (float64, error)
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	Fitter
	Predictor
	Scorer
}

// KernelModel はカーネル法に基づくモデルのインターフェース
type KernelModel interface {
	// NSupport は保持しているサポートベクターの数を返す
	NSupport() int
	// Intercept は学習されたバイアス項を返す
	Intercept() float64
	// DecisionFunction は符号を取る前の決定関数値を返す
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)
}
