package integration

import "github.com/rs/zerolog"

// Mailer sends a templated message. Delivery is fire-and-forget: callers
// never block or fail a request on a send error.
type Mailer interface {
	Send(to, template string, data map[string]interface{})
}

type logMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(to, template string, data map[string]interface{}) {
	m.log.Info().Str("to", to).Str("template", template).Msg("mail queued")
}
