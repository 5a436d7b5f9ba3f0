package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image_gateway/internal/prediction"
)

type fakePredictionStore struct {
	pred *prediction.Prediction
	err  error
}

func (f *fakePredictionStore) Get(ctx context.Context, id string) (*prediction.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pred, nil
}

func getStatus(t *testing.T, deps *Dependencies, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/generate/"+id, nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	deps.handlePredictionStatus(rr, req)
	return rr
}

func TestHandlePredictionStatus_InFlight(t *testing.T) {
	deps := newTestDeps(&fakeGenerator{})
	deps.Predictions = &fakePredictionStore{pred: &prediction.Prediction{
		ID:     "pred-1",
		Status: prediction.StatusProcessing,
	}}

	rr := getStatus(t, deps, "pred-1")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp predictionStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "pred-1", resp.ID)
	assert.Equal(t, prediction.StatusProcessing, resp.Status)
	assert.Nil(t, resp.Output, "in-flight jobs expose no output")
}

func TestHandlePredictionStatus_SucceededCanonicalizesOutput(t *testing.T) {
	deps := newTestDeps(&fakeGenerator{})
	deps.Predictions = &fakePredictionStore{pred: &prediction.Prediction{
		ID:     "pred-2",
		Status: prediction.StatusSucceeded,
		Output: json.RawMessage(`["https://provider.example.com/out.jpg"]`),
	}}

	rr := getStatus(t, deps, "pred-2")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp predictionStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Output)
	assert.Equal(t, "https://provider.example.com/out.jpg", *resp.Output)
}

func TestHandlePredictionStatus_MalformedOutputIsNotASuccess(t *testing.T) {
	deps := newTestDeps(&fakeGenerator{})
	deps.Predictions = &fakePredictionStore{pred: &prediction.Prediction{
		ID:     "pred-5",
		Status: prediction.StatusSucceeded,
		Output: json.RawMessage(`{"url":"https://provider.example.com/out.jpg"}`),
	}}

	rr := getStatus(t, deps, "pred-5")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandlePredictionStatus_FailedCarriesDetail(t *testing.T) {
	detail := "NSFW content detected"
	deps := newTestDeps(&fakeGenerator{})
	deps.Predictions = &fakePredictionStore{pred: &prediction.Prediction{
		ID:     "pred-3",
		Status: prediction.StatusFailed,
		Error:  &detail,
	}}

	rr := getStatus(t, deps, "pred-3")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp predictionStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, detail, *resp.Error)
}

func TestHandlePredictionStatus_ProviderUnreachable(t *testing.T) {
	deps := newTestDeps(&fakeGenerator{})
	deps.Predictions = &fakePredictionStore{err: errors.New("connection refused")}

	rr := getStatus(t, deps, "pred-4")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandlePredictionStatus_MissingID(t *testing.T) {
	deps := newTestDeps(&fakeGenerator{})

	rr := getStatus(t, deps, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
