package imagehost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const baseURL = "https://api.cloudinary.com/v1_1"

// Client uploads images to Cloudinary and deletes them by the public id
// derived from their delivery URL.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	httpClient *http.Client
}

// New creates a Cloudinary client. Callers should use Disabled instead
// when any credential is missing.
func New(cloudName, apiKey, apiSecret, folder string) *Client {
	return &Client{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the raw image to Cloudinary and returns its delivery URL.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    c.folder,
		"timestamp": timestamp,
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", baseURL, c.cloudName)
	result, err := c.post(ctx, endpoint, writer.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}

	if result.SecureURL == "" {
		return "", fmt.Errorf("upload rejected: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

// Delete removes the image behind a delivery URL. Unparseable URLs are
// ignored: they were never hosted here.
func (c *Client) Delete(ctx context.Context, rawURL string) error {
	publicID, ok := publicIDFromURL(rawURL)
	if !ok {
		return nil
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", baseURL, c.cloudName)
	_, err := c.post(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	return err
}

func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader) (*uploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image host request failed: %w", err)
	}
	defer resp.Body.Close()

	result := &uploadResponse{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("failed to decode image host response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("image host returned %d: %s", resp.StatusCode, result.Error.Message)
	}

	return result, nil
}

// sign builds the Cloudinary request signature: the alphabetically sorted
// params joined as a query string, concatenated with the API secret, and
// SHA-1 hashed.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// publicIDFromURL extracts the public id from a Cloudinary delivery URL:
// everything after the upload (and optional version) segment, without the
// file extension.
func publicIDFromURL(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	uploadIdx := -1
	for i, segment := range segments {
		if segment == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx == -1 || uploadIdx == len(segments)-1 {
		return "", false
	}

	rest := segments[uploadIdx+1:]
	if versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", false
	}

	publicID := strings.Join(rest, "/")
	publicID = strings.TrimSuffix(publicID, path.Ext(publicID))
	if publicID == "" {
		return "", false
	}

	return publicID, true
}
