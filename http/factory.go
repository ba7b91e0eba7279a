package http

import (
	"golang.org/x/time/rate"

	"github.com/gaborage/httpkit/config"
	"github.com/gaborage/httpkit/logger"
)

// Factory creates builders seeded from client configuration. Builders from
// the same factory share its transport and rate limiter.
type Factory struct {
	cfg       config.ClientConfig
	transport Transport
	limiter   *rate.Limiter
	logger    logger.Logger
}

// NewFactory creates a factory. A nil transport falls back to a shared NetTransport.
func NewFactory(cfg *config.ClientConfig, transport Transport, log logger.Logger) *Factory {
	if log == nil {
		log = logger.Nop()
	}
	if transport == nil {
		transport = NewNetTransport()
	}
	f := &Factory{cfg: *cfg, transport: transport, logger: log}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return f
}

// NewBuilderFromConfig seeds a single builder from client configuration.
func NewBuilderFromConfig(cfg *config.ClientConfig, log logger.Logger) *Builder {
	return NewFactory(cfg, nil, log).New()
}

// New returns a builder carrying the configured defaults.
func (f *Factory) New() *Builder {
	b := NewBuilder(f.logger, f.transport).
		WithBaseURL(f.cfg.BaseURL).
		WithTimeout(f.cfg.Timeout).
		WithRetries(f.cfg.Retries).
		WithRetryDelay(f.cfg.RetryDelay).
		WithHeaders(f.cfg.Headers)

	if !f.cfg.VerifyTLS {
		b.WithoutTLSVerification()
	}
	if !f.cfg.FollowRedirects {
		b.WithoutRedirecting()
	}
	if !f.cfg.HandleErrors {
		b.WithoutErrorHandling()
	}
	if f.cfg.Token != "" {
		b.WithToken(f.cfg.Token)
	}
	if f.limiter != nil {
		b.WithRateLimiter(f.limiter)
	}
	return b
}

// Transport returns the transport shared by the factory's builders.
func (f *Factory) Transport() Transport {
	return f.transport
}
