// Package screening is the automated content screening collaborator. The
// checker is pluggable; the HTTP implementation posts the image to an
// external classification API. Screening fails open: if the API is not
// configured or unreachable, the upload stays pending and moderation relies
// on user reports.
package screening

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/utils"
)

// Checker reports whether image content is safe to show unmoderated.
type Checker interface {
	IsSafe(ctx context.Context, imageContent []byte) bool
}

// Disabled is the no-op checker used when no screening API is configured.
type Disabled struct{}

func (Disabled) IsSafe(ctx context.Context, imageContent []byte) bool {
	return true
}

// HTTPChecker calls an external classification API with a bearer key.
type HTTPChecker struct {
	URL    string
	APIKey string
	Client *http.Client
}

func NewHTTPChecker(url, apiKey string) *HTTPChecker {
	return &HTTPChecker{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

type checkRequest struct {
	Image string `json:"image"`
}

type checkResponse struct {
	IsSafe     bool    `json:"is_safe"`
	Confidence float64 `json:"confidence"`
}

func (h *HTTPChecker) IsSafe(ctx context.Context, imageContent []byte) bool {
	payload, err := json.Marshal(checkRequest{
		Image: base64.StdEncoding.EncodeToString(imageContent),
	})
	if err != nil {
		utils.LogError(err, "Error encoding screening request")
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		utils.LogError(err, "Error creating screening request")
		return true
	}
	req.Header.Set("Authorization", "Bearer "+h.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		utils.LogError(err, "Screening API unreachable, allowing upload")
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.LogError(nil, "Screening API returned non-200, allowing upload")
		return true
	}

	var parsed checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		utils.LogError(err, "Error decoding screening response, allowing upload")
		return true
	}
	return parsed.IsSafe
}
