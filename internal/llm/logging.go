package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider logs every generation call.
type LoggingProvider struct {
	inner   Provider
	backend string
	log     *zap.Logger
}

// WithLogging wraps p. A nil logger disables output.
func WithLogging(p Provider, backend string, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, backend: backend, log: log.Named("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("backend", l.backend),
		zap.String("model", l.inner.ModelID()),
		zap.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}
	if resp != nil {
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
			zap.String("stop_reason", resp.StopReason),
		)
	}
	if err != nil {
		l.log.Warn("generate failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	l.log.Debug("generate", fields...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
