// Package upload pushes generated assets to Cloudinary and returns their
// public URLs.
package upload

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

const (
	imageFolder = "ATRA"
	videoFolder = "ATRA_videos"
)

// Client performs signed uploads against the Cloudinary upload API.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a Cloudinary upload client.
func NewClient(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		now:        time.Now,
	}
}

// UploadImage uploads a local image file and returns its secure URL.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	return c.upload(ctx, path, "image", imageFolder)
}

// UploadVideo uploads a local video file and returns its secure URL.
func (c *Client) UploadVideo(ctx context.Context, path string) (string, error) {
	return c.upload(ctx, path, "video", videoFolder)
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) upload(ctx context.Context, path, resourceType, folder string) (string, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return "", errors.New("Cloudinary credentials required: set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET")
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open asset %s: %w", path, err)
	}
	defer file.Close()

	params := map[string]string{
		"folder":    folder,
		"overwrite": "true",
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("write upload field: %w", err)
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return "", fmt.Errorf("write upload field: %w", err)
	}
	if err := writer.WriteField("signature", signParams(params, c.apiSecret)); err != nil {
		return "", fmt.Errorf("write upload field: %w", err)
	}

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create upload part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy asset into upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize upload body: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var result uploadResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := result.Error.Message
		if msg == "" {
			msg = string(bytes.TrimSpace(payload))
		}
		return "", fmt.Errorf("cloudinary upload returned status %d: %s", resp.StatusCode, msg)
	}

	if result.SecureURL == "" {
		return "", errors.New("cloudinary response missing secure_url")
	}
	return result.SecureURL, nil
}

// signParams produces the Cloudinary request signature: the sorted k=v pairs
// joined with &, concatenated with the API secret, SHA-1 hex encoded.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
