package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CustomerChurnPrediction/internal/features"
)

const defaultRemoteTimeout = 10 * time.Second

// ScoreRequest is the body sent to a remote model server.
type ScoreRequest struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// ScoreResponse is the model server's answer. Probabilities may be omitted
// by servers whose model has no predict_proba.
type ScoreResponse struct {
	Label         int       `json:"label"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

// RemoteClassifier calls a model server over HTTP: POST {baseURL}/predict.
type RemoteClassifier struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteClassifier(baseURL string, timeout time.Duration) *RemoteClassifier {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteClassifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RemoteClassifier) Predict(ctx context.Context, row features.AlignedRecord) (int, error) {
	label, _, err := c.Score(ctx, row)
	if errors.Is(err, ErrProbabilityUnavailable) {
		return label, nil
	}
	return label, err
}

func (c *RemoteClassifier) PredictProba(ctx context.Context, row features.AlignedRecord) ([]float64, error) {
	_, probs, err := c.Score(ctx, row)
	return probs, err
}

// Score posts the row and returns the server's label and probabilities.
// When the server sends no probabilities the label is still returned,
// together with ErrProbabilityUnavailable.
func (c *RemoteClassifier) Score(ctx context.Context, row features.AlignedRecord) (int, []float64, error) {
	reqBody, err := json.Marshal(ScoreRequest{
		Columns: row.Columns(),
		Values:  row.Values(),
	})
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(reqBody))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("model server request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, nil, errors.New("model server predict failed with status: " + resp.Status)
	}

	var scoreResp ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scoreResp); err != nil {
		return 0, nil, fmt.Errorf("decode model server response: %w", err)
	}
	if len(scoreResp.Probabilities) == 0 {
		return scoreResp.Label, nil, ErrProbabilityUnavailable
	}
	return scoreResp.Label, scoreResp.Probabilities, nil
}
