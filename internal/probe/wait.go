package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tileforge/qgisprobe/internal/logging"
	"github.com/tileforge/qgisprobe/internal/resolver"
)

// WaitForEngine polls the resolver until the engine binary appears, the
// configured wait window closes, or ctx is canceled. Provisioning scripts
// use this to block on a QGIS package install finishing in the background.
func (p *Prober) WaitForEngine(ctx context.Context) (*resolver.Resolution, error) {
	interval := seconds(p.Config.WaitInterval)
	deadline := time.Now().Add(seconds(p.Config.WaitTimeout))

	logging.Info(fmt.Sprintf("Waiting up to %s for the QGIS engine (checking every %s)",
		logging.FormatDuration(p.Config.WaitTimeout),
		logging.FormatDuration(p.Config.WaitInterval)))

	for {
		res, err := p.Resolve()
		if err == nil {
			return res, nil
		}
		if errors.Is(err, resolver.ErrUnsupportedPlatform) || !errors.Is(err, resolver.ErrNotFound) {
			// Waiting cannot fix an unsupported platform.
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("engine did not appear within %s: %w",
				logging.FormatDuration(p.Config.WaitTimeout), resolver.ErrNotFound)
		}

		sleep := interval
		if sleep > remaining {
			sleep = remaining
		}
		if logging.Verbose() {
			logging.Debug(fmt.Sprintf("QGIS not found yet, next check in %s", logging.Elapsed(sleep)))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
}
