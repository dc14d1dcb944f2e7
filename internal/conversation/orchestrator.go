package conversation

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/parley-cli/parley/internal/alias"
	"github.com/parley-cli/parley/internal/cache"
	"github.com/parley-cli/parley/internal/history"
	"github.com/parley-cli/parley/internal/intercept"
	"github.com/parley-cli/parley/internal/provider"
	"github.com/parley-cli/parley/internal/timing"
)

// fallbackResponse is shown when the remote call fails. It points the user
// at the error-retry phrases, which surface the recorded raw error.
const fallbackResponse = "🚨 Sorry, something went wrong with your request. " +
	"Ask me \"What's wrong?\" if you want to see the original error message."

// Orchestrator runs one query end to end: interception, alias resolution,
// context building, the remote call, status-cache bookkeeping and the
// history append. It exclusively owns all writes to the store and cache.
type Orchestrator struct {
	completer   provider.Completer
	builder     *Builder
	interceptor *intercept.Interceptor
	aliases     *alias.Resolver
	history     *history.Store
	cache       *cache.Cache
	params      provider.Params
	seedPrompt  string
	unlocked    bool
	log         zerolog.Logger
}

type OrchestratorOptions struct {
	Params     provider.Params
	SeedPrompt string
	Unlocked   bool
	Logger     zerolog.Logger
}

func NewOrchestrator(
	completer provider.Completer,
	builder *Builder,
	interceptor *intercept.Interceptor,
	aliases *alias.Resolver,
	store *history.Store,
	c *cache.Cache,
	opts OrchestratorOptions,
) *Orchestrator {
	return &Orchestrator{
		completer:   completer,
		builder:     builder,
		interceptor: interceptor,
		aliases:     aliases,
		history:     store,
		cache:       c,
		params:      opts.Params,
		seedPrompt:  opts.SeedPrompt,
		unlocked:    opts.Unlocked,
		log:         opts.Logger,
	}
}

// Run processes a single query and returns the text to emit. Remote-call
// failures are recovered into a fallback response plus durable error state;
// the only errors returned are storage write failures.
func (o *Orchestrator) Run(ctx context.Context, query string) (string, error) {
	res, err := o.interceptor.Intercept(query)
	if err != nil {
		return "", err
	}
	if res.Handled {
		o.log.Debug().Str("query", query).Msg("query intercepted")
		return res.Output, nil
	}

	prompt := o.aliases.Resolve(query)
	msgs := timing.Timed(o.log, "build_context", func() []provider.Message {
		return o.builder.Build(prompt)
	})

	// Optimistic: a crash mid-call leaves a sane "succeeded" default
	// instead of a stale failure flag.
	if err := o.cache.Set(cache.KeyLastRequestOK, true); err != nil {
		return "", err
	}

	response, callErr := timing.Timed2(o.log, "complete", func() (string, error) {
		return o.completer.Complete(ctx, msgs, o.params)
	})
	if callErr != nil {
		response = fallbackResponse
		o.log.Debug().Err(callErr).Msg("completion failed")
		if err := o.cache.Set(cache.KeyLastRequestOK, false); err != nil {
			return "", err
		}
		if err := o.cache.Set(cache.KeyLastError, o.errorDetail(prompt, callErr)); err != nil {
			return "", err
		}
	}

	if o.unlocked && o.seedPrompt != "" {
		if err := o.history.Append(history.NewExchange(o.seedPrompt, SeedAck, true)); err != nil {
			return "", err
		}
	}
	if err := o.history.Append(history.NewExchange(prompt, response, false)); err != nil {
		return "", err
	}

	return response, nil
}

func (o *Orchestrator) errorDetail(prompt string, err error) cache.ErrorDetail {
	detail := cache.ErrorDetail{
		Model:      o.completer.ModelName(),
		Message:    err.Error(),
		Prompt:     prompt,
		Parameters: o.params.Map(),
	}
	var ce *provider.CallError
	if errors.As(err, &ce) {
		detail.Message = ce.Message
	}
	return detail
}
