package service

import (
	"context"

	"go.uber.org/zap"
)

// Mailer sends transactional mail. Outbound delivery is out of scope, so the
// shipped implementation only logs what would have been sent.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string) error
}

type logMailer struct {
	from   string
	logger *zap.Logger
}

// NewLogMailer returns a Mailer that records sends in the log.
func NewLogMailer(from string, logger *zap.Logger) Mailer {
	return &logMailer{from: from, logger: logger}
}

func (m *logMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	m.logger.Info("password reset email (stub)",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("code", code))
	return nil
}
