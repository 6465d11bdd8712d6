package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ekko/internal/services"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the hosted transcription model used when none is
	// configured.
	DefaultModel = "whisper-1"
	// MaxUploadBytes is the hosted API's hard upload cap. Larger files are
	// rejected up front instead of chunked.
	MaxUploadBytes     = 25 << 20
	defaultHTTPTimeout = 5 * time.Minute
)

// ErrFileTooLarge reports an audio file over the hosted upload cap. The
// hosted backend does not chunk, so these files cannot be transcribed here.
var ErrFileTooLarge = errors.New("audio file exceeds hosted upload limit")

// Config describes the hosted transcription client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Language is an optional ISO 639-1 hint forwarded to the API.
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client wraps an OpenAI-compatible hosted transcription API.
type Client struct {
	apiKey   string
	baseURL  *url.URL
	model    string
	language string
	http     *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "hosted", "new", "api key is required", nil)
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "hosted", "new", "parse base url", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		model:    model,
		language: strings.TrimSpace(cfg.Language),
		http:     client,
	}, nil
}

// Model returns the configured model name for logging.
func (c *Client) Model() string {
	return c.model
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file and returns the transcription text.
// prompt is optional episode context that biases the model toward the right
// vocabulary. Files over MaxUploadBytes fail with ErrFileTooLarge before any
// upload.
func (c *Client) Transcribe(ctx context.Context, audioPath, prompt string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "hosted", "transcribe", "stat audio file", err)
	}
	if info.Size() > MaxUploadBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, filepath.Base(audioPath), info.Size(), int64(MaxUploadBytes))
	}

	body, contentType, err := c.buildUpload(audioPath, prompt)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL.JoinPath("audio", "transcriptions")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "post audio", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrExternalTool, "hosted", "transcribe",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var decoded transcriptionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "hosted", "transcribe", "decode response", err)
	}
	return decoded.Text, nil
}

func (c *Client) buildUpload(audioPath, prompt string) (io.Reader, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", services.Wrap(services.ErrNotFound, "hosted", "transcribe", "open audio file", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "build form", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "copy audio", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "write model field", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "write format field", err)
	}
	if c.language != "" {
		if err := writer.WriteField("language", c.language); err != nil {
			return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "write language field", err)
		}
	}
	if prompt = strings.TrimSpace(prompt); prompt != "" {
		if err := writer.WriteField("prompt", prompt); err != nil {
			return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "write prompt field", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "hosted", "transcribe", "finish form", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
