package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
)

// Chain tries backends in order for each request. A failure of any kind
// moves on to the next backend for that request only; there is no sticky
// health state.
type Chain struct {
	backends []Backend
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewChain creates a fallback chain. timeout bounds each attempt; zero means
// attempts are bounded only by the caller's context.
func NewChain(timeout time.Duration, logger *zerolog.Logger, backends ...Backend) (*Chain, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("at least one backend is required")
	}
	c := &Chain{backends: backends, timeout: timeout, logger: log.Logger}
	if logger != nil {
		c.logger = *logger
	}
	return c, nil
}

// Name lists the chained backends.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.backends))
	for _, b := range c.backends {
		names = append(names, b.Name())
	}
	return strings.Join(names, ",")
}

// Complete returns the first successful response. When every backend fails
// the error is ModelUnavailable.
func (c *Chain) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	var errs []error
	for _, b := range c.backends {
		resp, err := c.attempt(ctx, b, req)
		if err == nil {
			if resp.Backend == "" {
				resp.Backend = b.Name()
			}
			return resp, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		c.logger.Warn().Err(err).Str("backend", b.Name()).Msg("model backend failed, trying next")

		if ctx.Err() != nil {
			break
		}
	}

	return nil, domainerrors.NewModelUnavailableError(
		fmt.Sprintf("%d backend(s) failed", len(errs)), errors.Join(errs...))
}

func (c *Chain) attempt(ctx context.Context, b Backend, req *CompletionRequest) (*CompletionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := b.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	return resp, nil
}
