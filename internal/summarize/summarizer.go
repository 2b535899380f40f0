package summarize

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/logchange/logchange-go/internal/cache"
	"github.com/logchange/logchange-go/internal/git"
	"github.com/logchange/logchange-go/internal/ratelimit"
)

// SummaryUnavailable is the degraded result recorded for a commit whose
// summarization failed. One failed commit never halts the batch.
const SummaryUnavailable = "Summary unavailable."

// cacheStyle discriminates changelog summaries from other uses of the
// same cache directory.
const cacheStyle = "changelog"

// Summarizer produces commit summaries, consulting the response cache
// before the provider and throttling outbound calls through the limiter.
type Summarizer struct {
	gen       Generator
	model     string
	maxTokens int
	cache     *cache.Cache       // nil disables caching
	limiter   *ratelimit.Limiter // nil disables throttling
	errLog    *log.Logger
}

// Options configures a Summarizer.
type Options struct {
	Model     string
	MaxTokens int
	Cache     *cache.Cache
	Limiter   *ratelimit.Limiter
	ErrorLog  *log.Logger // defaults to a discarding logger
}

// New creates a Summarizer backed by the given provider.
func New(gen Generator, opts Options) *Summarizer {
	errLog := opts.ErrorLog
	if errLog == nil {
		errLog = log.New(io.Discard, "", 0)
	}
	return &Summarizer{
		gen:       gen,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		cache:     opts.Cache,
		limiter:   opts.Limiter,
		errLog:    errLog,
	}
}

// Summarize returns a changelog summary for the commit. Provider failures
// are logged and replaced with SummaryUnavailable; the only error returned
// is context cancellation.
func (s *Summarizer) Summarize(ctx context.Context, rec git.CommitRecord) (string, error) {
	prompt := BuildPrompt(rec.Message, rec.Diff)

	if s.cache != nil {
		if response, ok := s.cache.Get(prompt, s.model, cacheStyle); ok {
			return response, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.WaitIfNeeded(ctx); err != nil {
			return "", err
		}
	}

	resp, err := s.gen.Generate(ctx, Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		s.errLog.Printf("Error summarizing commit %s: %v", rec.ShortSHA(), err)
		return SummaryUnavailable, nil
	}

	if s.cache != nil {
		s.cache.Set(prompt, s.model, resp.Content, cacheStyle)
	}

	return resp.Content, nil
}
