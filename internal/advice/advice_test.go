package advice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CustomerChurnPrediction/internal/advice"
	"CustomerChurnPrediction/internal/models"
)

func TestFor(t *testing.T) {
	a, ok := advice.For(models.Prediction{Label: models.Churned, Probability: 0.8731})
	require.True(t, ok)
	assert.Equal(t, "High Churn Risk Detected", a.Headline)
	assert.Equal(t, "Churn Probability: 87.31%", a.Summary)
	assert.Contains(t, a.Action, "retention")

	a, ok = advice.For(models.Prediction{Label: models.Retained, Probability: 0.05})
	require.True(t, ok)
	assert.Equal(t, "Low Churn Risk", a.Headline)
	assert.Equal(t, "Churn Probability: 5.00%", a.Summary)

	_, ok = advice.For(models.Prediction{Label: models.ChurnLabel(7)})
	assert.False(t, ok)
}

func TestBusinessInsightIsACopy(t *testing.T) {
	in := advice.BusinessInsight()
	require.Len(t, in.Drivers, 4)
	in.Drivers[0] = "changed"
	assert.Equal(t, "Low tenure", advice.BusinessInsight().Drivers[0])
}
