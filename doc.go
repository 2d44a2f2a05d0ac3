// Package gosvm provides a kernelized support-vector-machine classifier for
// Go, trained through the dual quadratic program and designed around
// gonum matrices.
//
// The pipeline mirrors the textbook dual formulation: a pluggable kernel
// (Gaussian by default) produces the training Gram matrix, the svm package
// maps the margin-maximization dual onto canonical QP form, a QP solver
// collaborator returns the Lagrange multipliers, and the fitted model keeps
// only the support vectors it needs for prediction.
//
// # Quick Start
//
//	clf := svm.NewSVC(svm.WithC(100))
//	if err := clf.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := clf.Predict(XTest)
//
// Labels must be encoded as -1/+1; preprocessing.LabelBinarizer remaps
// arbitrary two-class labels. The modelselection package provides
// train/test splitting and (C, σ) grid sweeps around the estimator.
package gosvm
