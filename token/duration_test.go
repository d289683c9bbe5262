package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/finvofy-auth/token"
	"github.com/stretchr/testify/assert"
)

func TestParseMillis(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"30s", 30000},
		{"15m", 900000},
		{"2h", 7200000},
		{"7d", 604800000},
		{"7x", 604800000},
		{"", 604800000},
		{"d", 604800000},
		{"abcm", 604800000},
		{" 5m", 300000},
		{"10abcs", 10000},
		{"1.5h", 3600000},
		{"-1s", -1000},
		{"0d", 0},
		{"106751991167d", 106751991167 * 86400000},
		{"106751991168d", 604800000},
		{"-106751991168d", 604800000},
		{"9999999999999999d", 604800000},
		{"99999999999999999999s", 604800000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, token.ParseMillis(tt.in))
		})
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, token.ParseDuration("15m"))
	assert.Equal(t, 7*time.Second, token.ParseDuration("7 days"))
	assert.Equal(t, token.DefaultSessionDuration, token.ParseDuration("7 dayz"))
	assert.Equal(t, 100000*24*time.Hour, token.ParseDuration("100000d"))
	assert.Equal(t, token.DefaultSessionDuration, token.ParseDuration("300000d"))
	assert.Equal(t, token.DefaultSessionDuration, token.ParseDuration("9999999999999999d"))
}
