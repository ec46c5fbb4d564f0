package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"CustomerChurnPrediction/internal/features"
)

// Model kinds understood by LoadModel.
const (
	KindLogistic = "logistic"
	KindForest   = "forest"
	KindBoosted  = "boosted"
	KindVoting   = "voting"
)

const defaultThreshold = 0.5

// modelFile is the on-disk layout of a model artifact.
type modelFile struct {
	Kind         string       `json:"kind"`
	FeatureNames []string     `json:"feature_names"`
	Threshold    *float64     `json:"threshold,omitempty"`
	Intercept    float64      `json:"intercept"`
	Coefficients []float64    `json:"coefficients"`
	BaseScore    float64      `json:"base_score"`
	Trees        []treeFile   `json:"trees"`
	Members      []memberFile `json:"members"`
}

type treeFile struct {
	Nodes []nodeFile `json:"nodes"`
}

// nodeFile is one tree node. Internal nodes send x[feature] <= threshold
// left; leaves carry a value whose meaning depends on the model kind.
type nodeFile struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
}

type memberFile struct {
	Weight float64   `json:"weight"`
	Model  modelFile `json:"model"`
}

// estimator returns P(churn) for a row of values in feature order.
type estimator interface {
	churnProbability(x []float64) float64
}

// Model is a classifier evaluated in-process from a model artifact.
type Model struct {
	kind         string
	featureNames []string
	threshold    float64
	est          estimator
}

// LoadModel reads and validates a JSON model artifact.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseModel(data)
}

// ParseModel builds a Model from artifact bytes.
func ParseModel(data []byte) (*Model, error) {
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return newModel(mf)
}

func newModel(mf modelFile) (*Model, error) {
	if err := features.Schema(mf.FeatureNames).Validate(); err != nil {
		return nil, fmt.Errorf("model feature_names: %w", err)
	}
	threshold := defaultThreshold
	if mf.Threshold != nil {
		threshold = *mf.Threshold
		if threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("threshold %v outside [0, 1]", threshold)
		}
	}
	est, err := buildEstimator(mf, len(mf.FeatureNames))
	if err != nil {
		return nil, fmt.Errorf("%s model: %w", mf.Kind, err)
	}
	return &Model{
		kind:         mf.Kind,
		featureNames: append([]string(nil), mf.FeatureNames...),
		threshold:    threshold,
		est:          est,
	}, nil
}

func buildEstimator(mf modelFile, nFeatures int) (estimator, error) {
	switch mf.Kind {
	case KindLogistic:
		if len(mf.Coefficients) != nFeatures {
			return nil, fmt.Errorf("%d coefficients for %d features", len(mf.Coefficients), nFeatures)
		}
		return &logistic{intercept: mf.Intercept, weights: mf.Coefficients}, nil

	case KindForest, KindBoosted:
		if len(mf.Trees) == 0 {
			return nil, errors.New("no trees")
		}
		trees := make([]tree, len(mf.Trees))
		for i, tf := range mf.Trees {
			t, err := newTree(tf, nFeatures)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			if mf.Kind == KindForest {
				if err := t.checkLeafRange(0, 1); err != nil {
					return nil, fmt.Errorf("tree %d: %w", i, err)
				}
			}
			trees[i] = t
		}
		if mf.Kind == KindForest {
			return &forest{trees: trees}, nil
		}
		return &boosted{baseScore: mf.BaseScore, trees: trees}, nil

	case KindVoting:
		if len(mf.Members) == 0 {
			return nil, errors.New("no members")
		}
		v := &voting{}
		for i, m := range mf.Members {
			if m.Weight <= 0 {
				return nil, fmt.Errorf("member %d: weight must be positive", i)
			}
			// members inherit the ensemble's columns
			if len(m.Model.FeatureNames) == 0 {
				m.Model.FeatureNames = mf.FeatureNames
			}
			if !features.Schema(m.Model.FeatureNames).Equal(mf.FeatureNames) {
				return nil, fmt.Errorf("member %d: feature_names differ from the ensemble", i)
			}
			est, err := buildEstimator(m.Model, nFeatures)
			if err != nil {
				return nil, fmt.Errorf("member %d (%s): %w", i, m.Model.Kind, err)
			}
			v.members = append(v.members, est)
			v.weights = append(v.weights, m.Weight)
			v.total += m.Weight
		}
		return v, nil

	default:
		return nil, fmt.Errorf("unknown model kind %q", mf.Kind)
	}
}

func (m *Model) Kind() string { return m.kind }

func (m *Model) FeatureNames() []string { return append([]string(nil), m.featureNames...) }

func (m *Model) Threshold() float64 { return m.threshold }

func (m *Model) Predict(ctx context.Context, row features.AlignedRecord) (int, error) {
	label, _, err := m.Score(ctx, row)
	return label, err
}

func (m *Model) PredictProba(ctx context.Context, row features.AlignedRecord) ([]float64, error) {
	_, probs, err := m.Score(ctx, row)
	return probs, err
}

// Score evaluates the row once and returns label and [p0, p1]. The label is
// churned only when P(churn) is strictly above the threshold, so a tie at
// 0.5 resolves to the first class as an argmax would.
func (m *Model) Score(_ context.Context, row features.AlignedRecord) (int, []float64, error) {
	if err := checkColumns(m.featureNames, row); err != nil {
		return 0, nil, err
	}
	p := m.est.churnProbability(row.Values())
	label := 0
	if p > m.threshold {
		label = 1
	}
	return label, []float64{1 - p, p}, nil
}

type logistic struct {
	intercept float64
	weights   []float64
}

func (l *logistic) churnProbability(x []float64) float64 {
	z := l.intercept
	for i, w := range l.weights {
		z += w * x[i]
	}
	return sigmoid(z)
}

// forest averages leaf probabilities across trees.
type forest struct {
	trees []tree
}

func (f *forest) churnProbability(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.eval(x)
	}
	return sum / float64(len(f.trees))
}

// boosted adds leaf margins to the base score and squashes the log-odds.
type boosted struct {
	baseScore float64
	trees     []tree
}

func (b *boosted) churnProbability(x []float64) float64 {
	z := b.baseScore
	for _, t := range b.trees {
		z += t.eval(x)
	}
	return sigmoid(z)
}

// voting is a weighted soft vote over member estimators.
type voting struct {
	members []estimator
	weights []float64
	total   float64
}

func (v *voting) churnProbability(x []float64) float64 {
	var sum float64
	for i, m := range v.members {
		sum += v.weights[i] * m.churnProbability(x)
	}
	return sum / v.total
}

type tree struct {
	nodes []nodeFile
}

// newTree checks node references so that eval always terminates: children
// must point forward in the node list.
func newTree(tf treeFile, nFeatures int) (tree, error) {
	if len(tf.Nodes) == 0 {
		return tree{}, errors.New("no nodes")
	}
	for i, n := range tf.Nodes {
		if n.Leaf {
			if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
				return tree{}, fmt.Errorf("node %d: leaf value %v", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return tree{}, fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(tf.Nodes) {
				return tree{}, fmt.Errorf("node %d: child index %d invalid", i, child)
			}
		}
	}
	return tree{nodes: tf.Nodes}, nil
}

func (t tree) checkLeafRange(lo, hi float64) error {
	for i, n := range t.nodes {
		if n.Leaf && (n.Value < lo || n.Value > hi) {
			return fmt.Errorf("node %d: leaf probability %v outside [%v, %v]", i, n.Value, lo, hi)
		}
	}
	return nil
}

func (t tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
