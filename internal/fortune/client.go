// Package fortune wraps the external face/fortune analysis service. All
// report content is generated remotely; this client only moves bytes.
package fortune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/reporttype"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type FeaturesResponse struct {
	Features string `json:"features"`
}

type PairFeaturesResponse struct {
	Features1 string `json:"features1"`
	Features2 string `json:"features2"`
}

type BaseReportResponse struct {
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

type CoupleScoreResponse struct {
	Score int `json:"score"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ExtractFeatures uploads a single photo and returns the opaque feature
// token. The service answers "again" instead of a token when it could not
// detect a face; callers must treat that as a retryable upload, not a
// record.
func (c *Client) ExtractFeatures(ctx context.Context, image []byte) (string, error) {
	body, contentType, err := multipartImage(map[string][]byte{"file": image})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/analyze/features/", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result FeaturesResponse
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.Features, nil
}

// ExtractPairFeatures uploads two photos for the couple flow.
func (c *Client) ExtractPairFeatures(ctx context.Context, image1, image2 []byte) (string, string, error) {
	body, contentType, err := multipartImage(map[string][]byte{
		"file1": image1,
		"file2": image2,
	})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/analyze/pair/features/", body)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result PairFeaturesResponse
	if err := c.do(req, &result); err != nil {
		return "", "", err
	}
	return result.Features1, result.Features2, nil
}

// AnalyzeBase generates the flat base report from a feature token.
func (c *Client) AnalyzeBase(ctx context.Context, feature string) (*BaseReportResponse, error) {
	var result BaseReportResponse
	if err := c.postJSON(ctx, "/analyze/base", map[string]string{"feature": feature}, &result); err != nil {
		return nil, err
	}
	if result.Summary == "" || result.Detail == "" {
		return nil, fmt.Errorf("base analysis returned empty summary/detail")
	}
	return &result, nil
}

// GenerateDetails generates the chaptered report for one of the face types
// and returns the chapters in order (detail1..detailN).
func (c *Client) GenerateDetails(ctx context.Context, t reporttype.Type, feature string) ([]string, error) {
	n := t.Chapters()
	if n == 0 {
		return nil, fmt.Errorf("report type %s has no chaptered details", t)
	}

	var raw map[string]string
	if err := c.postJSON(ctx, "/analyze/"+t.String(), map[string]string{"feature": feature}, &raw); err != nil {
		return nil, err
	}

	details := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		section, ok := raw[fmt.Sprintf("detail%d", i)]
		if !ok || section == "" {
			return nil, fmt.Errorf("%s analysis response missing detail%d", t, i)
		}
		details = append(details, section)
	}
	return details, nil
}

// CoupleReport generates the compatibility report for a photo pair.
func (c *Client) CoupleReport(ctx context.Context, rec *models.CoupleRecord) ([]string, error) {
	payload := map[string]string{
		"features1":           rec.Features1,
		"features2":           rec.Features2,
		"relationshipType":    rec.RelationshipType,
		"relationshipFeeling": rec.RelationshipFeeling,
	}

	var raw map[string]string
	if err := c.postJSON(ctx, "/analyze/couple/report", payload, &raw); err != nil {
		return nil, err
	}

	n := reporttype.Couple.Chapters()
	details := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		section, ok := raw[fmt.Sprintf("detail%d", i)]
		if !ok || section == "" {
			return nil, fmt.Errorf("couple report response missing detail%d", i)
		}
		details = append(details, section)
	}
	return details, nil
}

// CoupleScore derives the compatibility score from the report's first
// chapter.
func (c *Client) CoupleScore(ctx context.Context, detail1 string) (int, error) {
	var result CoupleScoreResponse
	if err := c.postJSON(ctx, "/analyze/couple/score", map[string]string{"detail1": detail1}, &result); err != nil {
		return 0, err
	}
	return result.Score, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// do executes a request and decodes a 2xx JSON body into out. Non-2xx
// response body text becomes the error message, matching the service's
// error contract.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("analysis request failed: %s", msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	return nil
}

func multipartImage(files map[string][]byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, data := range files {
		part, err := writer.CreateFormFile(field, field+".jpg")
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
