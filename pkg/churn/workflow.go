// Package churn ties the toolkit together: it trains, evaluates and applies
// churn pipelines on tables, persisting them as bundles.
package churn

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/bundle"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/data"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/model"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/pipeline"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/report"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/split"
)

// ErrMissingTarget is returned when the target column is absent or cannot be detected.
var ErrMissingTarget = data.ErrMissingTarget

// TrainResult is the outcome of Train.
type TrainResult struct {
	Pipeline *pipeline.Pipeline
	Report   *report.ClassificationReport

	// TestLabels and TestProba are the held-out labels and the fitted
	// pipeline's positive-class probabilities for them.
	TestLabels []int
	TestProba  []float64

	TrainRows, TestRows int

	// BundlePath and BundleID are empty when nothing was saved.
	BundlePath string
	BundleID   string
}

// ResolveTarget returns target when set, otherwise the first of
// data.DefaultTargets present in df.
func ResolveTarget(df dataframe.DataFrame, target string) (string, error) {
	if target != "" {
		if !data.HasColumn(df, target) {
			return "", errors.Wrapf(ErrMissingTarget, "%q", target)
		}
		return target, nil
	}
	return data.DetectTarget(df, data.DefaultTargets)
}

// Train fits a pipeline on a stratified train partition of df, scores it on the
// held-out partition and, when outPath is not empty, saves it as a bundle.
// An empty cfg.Target is auto-detected.
func Train(df dataframe.DataFrame, cfg TrainConfig, outPath string) (*TrainResult, error) {
	target, err := ResolveTarget(df, cfg.Target)
	if err != nil {
		return nil, err
	}
	cfg.Target = target
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	X, y, err := data.SplitTarget(df, target)
	if err != nil {
		return nil, err
	}
	pre, err := pipeline.BuildPreprocessor(X, cfg.CatFeatures, cfg.NumFeatures)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx, err := split.Stratified(y, cfg.TestSize, cfg.RandomState)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("split %d rows %v: %d train, %d test (seed %d)",
		len(y), data.ClassCounts(y), len(trainIdx), len(testIdx), cfg.RandomState)

	p := pipeline.New(pre, cfg.classifier())
	if err := p.Fit(data.Rows(X, trainIdx), pick(y, trainIdx)); err != nil {
		return nil, errors.WithMessage(err, "churn: train")
	}

	if klog.V(2).Enabled() {
		for j, name := range pre.FeatureNames() {
			klog.Infof("coef %-24s %+.4f", name, p.Classifier.W[j])
		}
	}

	yTest := pick(y, testIdx)
	proba, err := p.PredictProba(data.Rows(X, testIdx))
	if err != nil {
		return nil, errors.WithMessage(err, "churn: score test partition")
	}
	rep, err := report.NewClassificationReport(yTest, model.BinaryPredFromProba(proba, 0.5))
	if err != nil {
		return nil, err
	}
	klog.Infof("held-out accuracy %.4f on %d rows\n%s", rep.Accuracy, len(yTest), rep)

	res := &TrainResult{
		Pipeline:   p,
		Report:     rep,
		TestLabels: yTest,
		TestProba:  proba,
		TrainRows:  len(trainIdx),
		TestRows:   len(testIdx),
	}
	if outPath == "" {
		return res, nil
	}
	b := bundle.New(p, cfg.meta())
	if err := b.Save(outPath); err != nil {
		return nil, err
	}
	res.BundlePath, res.BundleID = outPath, b.ID
	klog.Infof("saved model %s to %s", b.ID, outPath)
	return res, nil
}

// Evaluation is a report on a whole table together with the scores behind it.
type Evaluation struct {
	Report *report.ClassificationReport
	Labels []int
	Proba  []float64
}

// ROC returns the ROC curve of the evaluation's scores.
func (e *Evaluation) ROC() (*report.ROCCurve, error) {
	return report.NewROCCurve(e.Labels, e.Proba)
}

// Evaluate scores the bundle at modelPath on every row of df.
func Evaluate(df dataframe.DataFrame, target, modelPath string) (*report.ClassificationReport, error) {
	ev, err := EvaluateDetailed(df, target, modelPath)
	if err != nil {
		return nil, err
	}
	return ev.Report, nil
}

// EvaluateDetailed is Evaluate, also returning the labels and probabilities.
func EvaluateDetailed(df dataframe.DataFrame, target, modelPath string) (*Evaluation, error) {
	target, err := ResolveTarget(df, target)
	if err != nil {
		return nil, err
	}
	p, err := bundle.LoadPipeline(modelPath)
	if err != nil {
		return nil, err
	}
	X, y, err := data.SplitTarget(df, target)
	if err != nil {
		return nil, err
	}
	proba, err := p.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rep, err := report.NewClassificationReport(y, model.BinaryPredFromProba(proba, 0.5))
	if err != nil {
		return nil, err
	}
	return &Evaluation{Report: rep, Labels: y, Proba: proba}, nil
}

// LoadTable reads a delimited file for scoring with the bundle at modelPath.
// The bundle's input columns are read as text, so a row scores the same
// whichever file it comes from; other columns are detected as usual.
func LoadTable(path, modelPath string, opts ...data.LoadOption) (dataframe.DataFrame, error) {
	b, err := bundle.Load(modelPath)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	opts = append(opts, data.WithTypes(b.Schema.ColumnTypes()))
	return data.Load(path, opts...)
}

// Predict labels every row of df with the bundle at modelPath, in row order.
// Columns the bundle was not fitted on, including a target, are ignored.
func Predict(df dataframe.DataFrame, modelPath string) ([]int, error) {
	proba, err := PredictProba(df, modelPath)
	if err != nil {
		return nil, err
	}
	return model.BinaryPredFromProba(proba, 0.5), nil
}

// PredictProba returns the positive-class probability of every row of df.
func PredictProba(df dataframe.DataFrame, modelPath string) ([]float64, error) {
	b, err := bundle.Load(modelPath)
	if err != nil {
		return nil, err
	}
	return b.Pipeline.PredictProba(data.DropColumn(df, b.Config.Target))
}

func pick(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
