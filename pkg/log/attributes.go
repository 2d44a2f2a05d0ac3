// Package log defines standard attribute keys for SVM training and inference.
//
// Using these standard keys enables consistent log analysis, monitoring, and
// debugging across the fit/predict pipeline. The keys follow a hierarchical
// naming convention (e.g., "model.name", "data.samples") to enable structured
// log filtering.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of model, e.g. "SVC".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "solve"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "svm.svc", "qp.smo", "kernel"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Solver and fitted-model characteristics.
const (
	// IterationsKey reports how many iterations the QP solver performed.
	IterationsKey = "solver.iterations"

	// StatusKey reports the QP solver termination status.
	StatusKey = "solver.status"

	// SupportVectorsKey reports the size of the retained support set.
	SupportVectorsKey = "svm.support_vectors"

	// InterceptKey reports the recovered bias term.
	InterceptKey = "svm.intercept"

	// CKey reports the box-constraint bound used during fitting.
	CKey = "svm.c"
)

// Performance metrics.
const (
	// AccuracyKey reports classification accuracy.
	AccuracyKey = "metrics.accuracy"

	// DurationMsKey reports elapsed wall-clock time in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
