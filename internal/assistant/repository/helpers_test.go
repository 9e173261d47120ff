package repository

import (
	"testing"

	"finsight/internal/assistant/config"
	"finsight/pkg/logger"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		Gemini: config.Gemini{
			APIKey:              "test-key",
			Model:               "gemini-test",
			MaxRequestPerMinute: 600,
			MaxTokenPerMinute:   1000000,
		},
		OpenAI: config.OpenAI{
			APIKey:              "test-key",
			Model:               "gpt-test",
			MaxRequestPerMinute: 600,
			MaxTokenPerMinute:   1000000,
		},
		Finnhub: config.Finnhub{
			Enabled:             true,
			APIKey:              "fh-key",
			MaxRequestPerMinute: 600,
		},
		AlphaVantage: config.AlphaVantage{
			APIKey:              "av-key",
			MaxRequestPerMinute: 600,
		},
	}
}
