package models

import (
	"fmt"
	"time"
)

// ChurnLabel is the classifier's output class.
type ChurnLabel int

const (
	Retained ChurnLabel = 0
	Churned  ChurnLabel = 1
)

func (l ChurnLabel) String() string {
	switch l {
	case Retained:
		return "retained"
	case Churned:
		return "churned"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// NeutralProbability is used when the classifier cannot report class probabilities.
const NeutralProbability = 0.5

// Prediction is the result of scoring one customer profile.
type Prediction struct {
	ID          string     `json:"id"`
	Label       ChurnLabel `json:"label"`
	Probability float64    `json:"churn_probability"`
	Aligned     bool       `json:"aligned"`
	Columns     []string   `json:"columns"`
	CreatedAt   time.Time  `json:"created_at"`
}

// HighRisk reports whether the customer is predicted to churn.
func (p Prediction) HighRisk() bool {
	return p.Label == Churned
}

// Percent formats the churn probability for display, e.g. 0.1234 -> "12.34%".
func (p Prediction) Percent() string {
	return fmt.Sprintf("%.2f%%", p.Probability*100)
}
