package provider

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// #endregion

// #region limits

const (
	// maxErrorBodySize caps how much of a failed response body is kept as detail.
	maxErrorBodySize = 64 * 1024
	// maxResponseBodySize caps a successful completion payload.
	maxResponseBodySize = 8 * 1024 * 1024
)

// #endregion

// #region post-json

// postJSON sends one POST and decodes a 2xx JSON body into out. Every failure
// comes back as *Error tagged with providerID.
func postJSON(ctx context.Context, client *http.Client, providerID, url string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return newError(providerID, 0, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return newError(providerID, 0, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return newError(providerID, 0, "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return newError(providerID, resp.StatusCode, strings.TrimSpace(string(detail)), nil)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(out); err != nil {
		return newError(providerID, resp.StatusCode, "decode response", err)
	}
	return nil
}

// #endregion

// #region helpers

func endpointOr(endpoint, fallback string) string {
	if endpoint == "" {
		endpoint = fallback
	}
	return strings.TrimSuffix(endpoint, "/")
}

func modelOr(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}

func checkPrompt(providerID, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return newError(providerID, 0, "", ErrEmptyPrompt)
	}
	return nil
}

// #endregion
