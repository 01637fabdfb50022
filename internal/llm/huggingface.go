package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// HuggingFaceClient calls the hosted inference API for a text-generation model.
// The response body is returned untouched; the caller's client extracts the text.
type HuggingFaceClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewHuggingFaceClient creates a client for baseURL/model, e.g.
// https://api-inference.huggingface.co/models + OpenAssistant/oasst-sft-1-pythia-12b.
// The default http.Client has no timeout; waiting for a cold model can take a while.
func NewHuggingFaceClient(apiKey, baseURL, model string, client *http.Client) *HuggingFaceClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HuggingFaceClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

func (h *HuggingFaceClient) ProviderName() string { return "huggingface" }
func (h *HuggingFaceClient) ModelName() string    { return h.model }

// HTTPStatusError means the inference API answered with a non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("inference API returned HTTP %d: %s", e.StatusCode, e.Body)
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	// WaitForModel makes the API block while a cold model loads instead of returning 503.
	WaitForModel bool `json:"wait_for_model"`
}

func (h *HuggingFaceClient) Recommend(ctx context.Context, seed string) (json.RawMessage, error) {
	payload, err := json.Marshal(inferenceRequest{
		Inputs:  BuildPrompt(seed),
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("inference API returned non-JSON body")
	}

	return json.RawMessage(body), nil
}
