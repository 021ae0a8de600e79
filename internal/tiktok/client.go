// Package tiktok implements the Direct Post flow against the TikTok open
// API: initialize an upload session, PUT the video bytes, poll publish
// status. The client performs no retries; retry policy belongs to callers.
package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAPIBase is the production TikTok open API host.
	DefaultAPIBase = "https://open.tiktokapis.com"

	// DefaultPrivacyLevel is the most restrictive level; new integrations
	// post privately until the app is approved for public posting.
	DefaultPrivacyLevel = "SELF_ONLY"
)

// TerminalStatuses are the publish states that end polling.
const (
	StatusPublishComplete = "PUBLISH_COMPLETE"
	StatusFailed          = "FAILED"
)

var privacyLevels = map[string]bool{
	"SELF_ONLY":             true,
	"PUBLIC_TO_EVERYONE":    true,
	"MUTUAL_FOLLOW_FRIENDS": true,
	"FOLLOWER_OF_CREATOR":   true,
}

// PrivacyLevels returns the accepted privacy levels, sorted.
func PrivacyLevels() []string {
	levels := make([]string, 0, len(privacyLevels))
	for level := range privacyLevels {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels
}

// NormalizePrivacy validates and canonicalizes a privacy level before any
// network call is made.
func NormalizePrivacy(level string) (string, error) {
	privacy := strings.ToUpper(strings.TrimSpace(level))
	if privacy == "" {
		privacy = DefaultPrivacyLevel
	}
	if !privacyLevels[privacy] {
		return "", fmt.Errorf("unsupported privacy level %q (allowed: %s)",
			level, strings.Join(PrivacyLevels(), ", "))
	}
	return privacy, nil
}

// Client talks to the TikTok Direct Post endpoints with a bearer token.
type Client struct {
	accessToken string
	apiBase     string
	httpClient  *http.Client
}

// NewClient creates a Direct Post client. An empty token falls back to the
// TIKTOK_ACCESS_TOKEN environment variable; a missing token is a
// configuration error.
func NewClient(accessToken string) (*Client, error) {
	if accessToken == "" {
		accessToken = os.Getenv("TIKTOK_ACCESS_TOKEN")
	}
	if accessToken == "" {
		return nil, errors.New("TIKTOK_ACCESS_TOKEN is required for TikTok posting")
	}
	return &Client{
		accessToken: accessToken,
		apiBase:     DefaultAPIBase,
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// Status is the normalized publish state for a session.
type Status struct {
	Status       string
	FailReason   string
	PublicPostID string
}

// Terminal reports whether polling can stop.
func (s Status) Terminal() bool {
	return s.Status == StatusPublishComplete || s.Status == StatusFailed
}

type initRequest struct {
	PostInfo   postInfo   `json:"post_info"`
	SourceInfo sourceInfo `json:"source_info"`
}

type postInfo struct {
	Title          string `json:"title"`
	PrivacyLevel   string `json:"privacy_level"`
	DisableDuet    bool   `json:"disable_duet"`
	DisableComment bool   `json:"disable_comment"`
	DisableStitch  bool   `json:"disable_stitch"`
}

type sourceInfo struct {
	Source          string `json:"source"`
	VideoSize       int64  `json:"video_size"`
	ChunkSize       int64  `json:"chunk_size"`
	TotalChunkCount int    `json:"total_chunk_count"`
}

// Init requests an upload session for a single-chunk direct file upload and
// returns the publish identifier plus the upload target URL.
func (c *Client) Init(ctx context.Context, videoSize int64, caption, privacyLevel string) (string, string, error) {
	privacy, err := NormalizePrivacy(privacyLevel)
	if err != nil {
		return "", "", err
	}

	payload := initRequest{
		PostInfo: postInfo{
			Title:        caption,
			PrivacyLevel: privacy,
		},
		SourceInfo: sourceInfo{
			Source:          "FILE_UPLOAD",
			VideoSize:       videoSize,
			ChunkSize:       videoSize,
			TotalChunkCount: 1,
		},
	}

	data, err := c.postJSON(ctx, "/v2/post/publish/video/init/", payload)
	if err != nil {
		return "", "", err
	}

	var result struct {
		PublishID string `json:"publish_id"`
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", "", fmt.Errorf("decode init response: %w", err)
	}
	if result.PublishID == "" || result.UploadURL == "" {
		return "", "", errors.New("TikTok init response missing publish_id or upload_url")
	}
	return result.PublishID, result.UploadURL, nil
}

// Upload performs the single-chunk binary PUT to the session's upload URL.
func (c *Client) Upload(ctx context.Context, uploadURL string, video []byte) error {
	size := int64(len(video))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(video))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Content-Length", strconv.FormatInt(size, 10))
	req.Header.Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", size-1, size))
	req.ContentLength = size

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("video upload failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("video upload failed (%d): %s", resp.StatusCode, bytes.TrimSpace(body))
}

// FetchStatus polls the publish status for a session and normalizes the
// platform response.
func (c *Client) FetchStatus(ctx context.Context, publishID string) (Status, error) {
	data, err := c.postJSON(ctx, "/v2/post/publish/status/fetch/", map[string]string{
		"publish_id": publishID,
	})
	if err != nil {
		return Status{}, err
	}

	var result struct {
		Status     string          `json:"status"`
		FailReason string          `json:"fail_reason"`
		PostID     json.RawMessage `json:"publicly_available_post_id"`
		// The platform has historically misspelled this field.
		PostIDLegacy json.RawMessage `json:"publicaly_available_post_id"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return Status{}, fmt.Errorf("decode status response: %w", err)
	}

	postID := rawToString(result.PostID)
	if postID == "" {
		postID = rawToString(result.PostIDLegacy)
	}

	return Status{
		Status:       result.Status,
		FailReason:   result.FailReason,
		PublicPostID: postID,
	}, nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error apiError        `json:"error"`
}

// postJSON sends an authenticated JSON POST and unwraps the TikTok response
// envelope, surfacing HTTP failures and embedded error codes.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TikTok API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read TikTok response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TikTok API request failed (%d): %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("TikTok API returned non-JSON body: %w", err)
	}

	if env.Error.Code != "" && env.Error.Code != "ok" {
		msg := env.Error.Message
		if msg == "" {
			msg = "TikTok API error"
		}
		if env.Error.LogID != "" {
			return nil, fmt.Errorf("TikTok API error: %s (log_id=%s)", msg, env.Error.LogID)
		}
		return nil, fmt.Errorf("TikTok API error: %s", msg)
	}

	if env.Data == nil {
		return nil, errors.New("TikTok API response missing data field")
	}
	return env.Data, nil
}

// rawToString renders a JSON value the platform returns inconsistently
// (string, number, or array) as a display string.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := anyToString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
