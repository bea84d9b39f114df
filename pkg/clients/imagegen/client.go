package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/artusm/funny-learn-notifier/pkg/config"
	"github.com/artusm/funny-learn-notifier/pkg/models"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	defaultOpenAIModel     = "dall-e-3"
	defaultOpenRouterModel = "openai/dall-e-3"

	// Advisory attribution headers recommended by OpenRouter.
	openRouterReferrer = "https://github.com/artusm/funny-learn-notifier"
	openRouterTitle    = "funny-learn-notifier"
)

// Generator is the capability the pipeline needs from an image backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (models.GenerationResult, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Client talks to an OpenAI-compatible images endpoint. The same
// implementation serves both the OpenAI and OpenRouter backends; they differ
// only in base URL, model name and a couple of attribution headers.
type Client struct {
	api        openai.Client
	httpClient *http.Client
	provider   string
	model      string
}

// Options controls optional parameters for the client constructors.
type Options struct {
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string
	// Model overrides the provider default model name.
	Model string
	// HTTPClient is used for image downloads and, when set, for API calls.
	HTTPClient *http.Client
}

// NewOpenAI builds a client for the OpenAI images API.
func NewOpenAI(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is empty")
	}
	return newClient(config.ProviderOpenAI, apiKey, openAIBaseURL, defaultOpenAIModel, nil, opts)
}

// NewOpenRouter builds a client for the OpenRouter images API.
func NewOpenRouter(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is empty")
	}
	extra := []option.RequestOption{
		option.WithHeader("HTTP-Referer", openRouterReferrer),
		option.WithHeader("X-Title", openRouterTitle),
	}
	return newClient(config.ProviderOpenRouter, apiKey, openRouterBaseURL, defaultOpenRouterModel, extra, opts)
}

// NewFromConfig picks the backend selected by IMAGE_API_PROVIDER.
func NewFromConfig(cfg config.Config) (*Client, error) {
	key, err := cfg.ProviderAPIKey()
	if err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(key, Options{})
	case config.ProviderOpenRouter:
		return NewOpenRouter(key, Options{Model: cfg.OpenRouterModel})
	default:
		return nil, fmt.Errorf("unknown image provider: %q", cfg.Provider)
	}
}

func newClient(provider, apiKey, baseURL, model string, extra []option.RequestOption, opts Options) (*Client, error) {
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	if opts.Model != "" {
		model = opts.Model
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	// The pipeline never retries; keep the SDK from retrying underneath it.
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	reqOpts = append(reqOpts, extra...)

	return &Client{
		api:        openai.NewClient(reqOpts...),
		httpClient: httpClient,
		provider:   provider,
		model:      model,
	}, nil
}

// Generate asks the backend to draw one 1024x1024 standard-quality image and
// returns its URL plus the provider-revised prompt when present.
func (c *Client) Generate(ctx context.Context, prompt string) (models.GenerationResult, error) {
	resp, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:   openai.ImageModel(c.model),
		Prompt:  prompt,
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize1024x1024,
		Quality: openai.ImageGenerateParamsQualityStandard,
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return models.GenerationResult{}, fmt.Errorf("%s: unexpected status code: %d, body: %s", c.provider, apierr.StatusCode, apierr.RawJSON())
		}
		return models.GenerationResult{}, fmt.Errorf("%s request failed: %w", c.provider, err)
	}
	if len(resp.Data) == 0 {
		return models.GenerationResult{}, fmt.Errorf("%s: response contains no images", c.provider)
	}

	first := resp.Data[0]
	if first.URL == "" {
		return models.GenerationResult{}, fmt.Errorf("%s: response image has no url", c.provider)
	}
	return models.GenerationResult{
		ImageURL:      first.URL,
		RevisedPrompt: first.RevisedPrompt,
	}, nil
}

// Download fetches the raw image bytes from a URL the backend returned.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download: unexpected status code: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	return data, nil
}
