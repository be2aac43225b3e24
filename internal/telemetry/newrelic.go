package telemetry

import (
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"

	"example.com/logistics/services/odv/config"
)

// InitNewRelic initializes the New Relic application. A nil application is
// returned when telemetry is disabled.
func InitNewRelic(cfg config.NewRelicConfig) (*newrelic.Application, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize New Relic: %w", err)
	}

	return app, nil
}
