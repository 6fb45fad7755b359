package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"newsalpha/internal/domain"
)

// ClassifierRepository fronts the embedding + probability model, which
// runs out of process behind an inference endpoint. The model itself is
// opaque: texts in, per-class probabilities out.
type ClassifierRepository interface {
	Classify(ctx context.Context, texts []string) ([]domain.ClassProbabilities, error)
}

type classifierRepositoryHandler struct {
	HttpClient *http.Client
	BaseUrl    string
}

func NewClassifierRepository(httpClient *http.Client, baseUrl string) ClassifierRepository {
	return classifierRepositoryHandler{
		HttpClient: httpClient,
		BaseUrl:    baseUrl,
	}
}

type classifyRequest struct {
	Texts []string `json:"texts"`
}

type classifyResponse struct {
	Probabilities []domain.ClassProbabilities `json:"probabilities"`
}

func (h classifierRepositoryHandler) Classify(ctx context.Context, texts []string) ([]domain.ClassProbabilities, error) {
	payload, err := json.Marshal(classifyRequest{Texts: texts})
	if err != nil {
		return nil, err
	}

	url := h.BaseUrl + "/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := h.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: classify call failed: %s", domain.ErrTransientProvider, err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: classify returned status %d: %s", domain.ErrTransientProvider, response.StatusCode, string(responseBytes))
	}

	var responseJson classifyResponse
	if err := json.Unmarshal(responseBytes, &responseJson); err != nil {
		return nil, fmt.Errorf("failed to parse classify response: %w", err)
	}

	if len(responseJson.Probabilities) != len(texts) {
		return nil, fmt.Errorf("sent %d texts but received %d probability rows", len(texts), len(responseJson.Probabilities))
	}

	return responseJson.Probabilities, nil
}
