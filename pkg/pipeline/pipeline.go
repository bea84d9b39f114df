package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/artusm/funny-learn-notifier/pkg/clients/imagegen"
	"github.com/artusm/funny-learn-notifier/pkg/clients/telegram"
	"github.com/artusm/funny-learn-notifier/pkg/config"
	"github.com/artusm/funny-learn-notifier/pkg/metrics"
	"github.com/artusm/funny-learn-notifier/pkg/models"
	"github.com/artusm/funny-learn-notifier/pkg/prompts"
	"github.com/artusm/funny-learn-notifier/pkg/store"
)

// Trigger kinds, used for logging and metrics labels.
const (
	TriggerManual = "manual"
	TriggerTimer  = "timer"
)

// Messenger delivers one photo to the chat backend.
type Messenger interface {
	SendPhoto(ctx context.Context, payload models.DeliveryPayload) error
}

// Deps are the pipeline collaborators. Nil fields fall back to production
// defaults at run time; tests inject fakes or httptest-backed clients.
type Deps struct {
	Provider  imagegen.Generator
	Messenger Messenger
	Store     store.ImageStore
	Registry  *metrics.Registry
	Selector  *prompts.Selector
}

// Service runs the whole post pipeline: pick prompt, generate image,
// download it, send it to the chat. Strictly sequential, no retries, the
// first failure wins.
type Service struct {
	cfg  config.Config
	deps Deps
}

func NewService(cfg config.Config, deps Deps) *Service {
	if deps.Selector == nil {
		deps.Selector = prompts.NewSelector(nil)
	}
	return &Service{cfg: cfg, deps: deps}
}

// Run executes one activation and reports the outcome. Errors never escape;
// they are logged, counted and folded into the report.
func (s *Service) Run(ctx context.Context, trigger string) models.OutcomeReport {
	logger := log.Ctx(ctx).With().Str("trigger", trigger).Logger()
	ctx = logger.WithContext(ctx)

	s.count(ctx, "activations_total", map[string]string{"trigger": trigger})

	if err := s.cfg.ValidatePipeline(); err != nil {
		return s.fail(ctx, trigger, "configuration", err)
	}

	provider := s.deps.Provider
	if provider == nil {
		p, err := imagegen.NewFromConfig(s.cfg)
		if err != nil {
			return s.fail(ctx, trigger, "configuration", err)
		}
		provider = p
	}

	messenger := s.deps.Messenger
	if messenger == nil {
		m, err := telegram.NewClient(telegram.DefaultBaseURL, s.cfg.TelegramBotToken, nil)
		if err != nil {
			return s.fail(ctx, trigger, "configuration", err)
		}
		messenger = m
	}

	prompt := s.deps.Selector.Prompt()
	logger.Info().Str("prompt", prompt).Str("provider", s.cfg.Provider).Msg("generating image")

	result, err := provider.Generate(ctx, prompt)
	if err != nil {
		return s.fail(ctx, trigger, "generation", err)
	}
	s.count(ctx, "images_generated_total", map[string]string{"provider": s.cfg.Provider})

	data, err := provider.Download(ctx, result.ImageURL)
	if err != nil {
		return s.fail(ctx, trigger, "download", err)
	}
	s.count(ctx, "image_bytes_downloaded_total", nil, int64(len(data)))

	if s.deps.Store != nil {
		ttl := time.Duration(s.cfg.ImageTTLSeconds) * time.Second
		if _, err := s.deps.Store.Save(ctx, data, ttl); err != nil {
			// Retention is best-effort; the post still goes out.
			logger.Warn().Err(err).Msg("failed to retain image in memory")
		}
	}

	caption := s.deps.Selector.Caption()
	err = messenger.SendPhoto(ctx, models.DeliveryPayload{
		ImageData: data,
		Caption:   caption,
		ChatID:    s.cfg.TelegramChatID,
	})
	if err != nil {
		return s.fail(ctx, trigger, "delivery", err)
	}
	s.count(ctx, "photos_delivered_total", nil)

	logger.Info().
		Str("prompt", prompt).
		Str("revised_prompt", result.RevisedPrompt).
		Str("caption", caption).
		Int("bytes", len(data)).
		Msg("photo delivered")

	return models.OutcomeReport{
		Success:       true,
		Message:       "photo delivered",
		Prompt:        prompt,
		RevisedPrompt: result.RevisedPrompt,
	}
}

func (s *Service) fail(ctx context.Context, trigger, stage string, err error) models.OutcomeReport {
	log.Ctx(ctx).Error().Err(err).Str("stage", stage).Msg("pipeline failed")
	s.count(ctx, "pipeline_failures_total", map[string]string{"trigger": trigger, "stage": stage})
	return models.OutcomeReport{Success: false, Error: err.Error()}
}

func (s *Service) count(ctx context.Context, name string, labels map[string]string, n ...int64) {
	if s.deps.Registry == nil {
		return
	}
	v := int64(1)
	if len(n) > 0 {
		v = n[0]
	}
	s.deps.Registry.Inc(ctx, name, labels, v)
}
