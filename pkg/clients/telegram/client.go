package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/artusm/funny-learn-notifier/pkg/models"
)

// DefaultBaseURL is the production Telegram Bot API host.
const DefaultBaseURL = "https://api.telegram.org"

// Client sends photos through the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient constructs a Telegram client. baseURL is overridable for tests;
// pass DefaultBaseURL in production. A nil httpClient gets a 60 second
// timeout default.
func NewClient(baseURL, token string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("empty base URL")
	}
	if token == "" {
		return nil, errors.New("empty bot token")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, token: token}, nil
}

// SendPhoto posts the image as a multipart form to the sendPhoto method.
// The whole image is buffered in memory; Telegram caps bot uploads well below
// anything an image provider returns.
func (c *Client) SendPhoto(ctx context.Context, payload models.DeliveryPayload) error {
	if len(payload.ImageData) == 0 {
		return errors.New("empty image data")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("chat_id", payload.ChatID); err != nil {
		return fmt.Errorf("failed to write chat_id: %w", err)
	}
	if err := writer.WriteField("caption", payload.Caption); err != nil {
		return fmt.Errorf("failed to write caption: %w", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="image.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := part.Write(payload.ImageData); err != nil {
		return fmt.Errorf("failed to write photo: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram: unexpected status code: %d, body: %s", resp.StatusCode, string(raw))
	}
	return nil
}
