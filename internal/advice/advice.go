package advice

import (
	"fmt"

	"CustomerChurnPrediction/internal/models"
)

// Advice is the message shown next to a prediction.
type Advice struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Action   string `json:"action"`
}

// Insight is the static business insight panel.
type Insight struct {
	Drivers []string `json:"drivers"`
	Actions []string `json:"actions"`
}

var advice = map[models.ChurnLabel]Advice{
	models.Churned: {
		Headline: "High Churn Risk Detected",
		Action:   "Immediate retention action recommended.",
	},
	models.Retained: {
		Headline: "Low Churn Risk",
		Action:   "Customer is likely to stay.",
	},
}

var insight = Insight{
	Drivers: []string{
		"Low tenure",
		"Month-to-month contracts",
		"High monthly charges",
		"Low satisfaction score",
	},
	Actions: []string{
		"Offer loyalty discounts",
		"Upsell long-term contracts",
		"Improve service experience",
	},
}

// ModelInputs lists what the model looks at, for the form's description.
var ModelInputs = []string{
	"Customer tenure",
	"Contract type",
	"Service usage",
	"Billing behavior",
	"Satisfaction score",
}

// For returns the advice for a prediction. ok is false for labels outside
// the registry.
func For(p models.Prediction) (Advice, bool) {
	a, ok := advice[p.Label]
	if !ok {
		return Advice{}, false
	}
	a.Summary = fmt.Sprintf("Churn Probability: %s", p.Percent())
	return a, true
}

// BusinessInsight returns a copy of the insight panel.
func BusinessInsight() Insight {
	return Insight{
		Drivers: append([]string(nil), insight.Drivers...),
		Actions: append([]string(nil), insight.Actions...),
	}
}
