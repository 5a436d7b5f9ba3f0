package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Prediction statuses as reported by the provider. starting/processing are
// in-flight; succeeded/failed/canceled are terminal.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

var (
	// ErrUpstream is returned when the provider rejects a submission
	ErrUpstream = errors.New("prediction provider rejected the request")

	// ErrUpstreamContract is returned when a succeeded prediction carries an
	// output shape the client does not recognize
	ErrUpstreamContract = errors.New("unexpected prediction output shape")

	// ErrGenerationFailed is returned when a prediction terminates as failed
	// or canceled
	ErrGenerationFailed = errors.New("generation failed")

	// ErrPollTimeout is returned when the attempt ceiling is hit before the
	// prediction reaches a terminal state
	ErrPollTimeout = errors.New("generation timed out")
)

// Input describes one model invocation.
type Input struct {
	Prompt string
	// ImageURL is an optional source image; when set the provider receives it
	// as a single-element image_input array and matches the output aspect
	// ratio to it.
	ImageURL string
}

// Prediction is the provider's view of one job.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  *string         `json:"error,omitempty"`
}

// Terminal reports whether the prediction has reached a terminal state
func (p *Prediction) Terminal() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// OutputURL returns the single canonical output URL of a succeeded
// prediction. The provider has been observed returning both a bare URL string
// and an array of URLs; both are accepted, anything else is a contract error.
func (p *Prediction) OutputURL() (string, error) {
	if len(p.Output) == 0 {
		return "", fmt.Errorf("%w: empty output", ErrUpstreamContract)
	}

	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return single, nil
	}

	var many []string
	if err := json.Unmarshal(p.Output, &many); err == nil && len(many) > 0 && many[0] != "" {
		return many[0], nil
	}

	return "", fmt.Errorf("%w: %s", ErrUpstreamContract, string(p.Output))
}
