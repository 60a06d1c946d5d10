package veml6040

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Prober is anything with a single-shot presence check, normally a *Dev.
type Prober interface {
	CheckPresence() error
}

// WaitForPresence polls p every interval until it answers, ctx is done, or
// attempts checks have failed. It returns the last presence error.
func WaitForPresence(ctx context.Context, p Prober, attempts uint64, interval time.Duration) error {
	if attempts == 0 {
		attempts = 1
	}
	var b backoff.BackOff = backoff.NewConstantBackOff(interval)
	b = backoff.WithMaxRetries(b, attempts-1)
	b = backoff.WithContext(b, ctx)

	n := 0
	return backoff.Retry(func() error {
		n++
		err := p.CheckPresence()
		if err != nil {
			log.Warn().Err(err).Int("attempt", n).Msg("sensor not responding")
		}
		return err
	}, b)
}
