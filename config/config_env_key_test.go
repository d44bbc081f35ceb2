package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"gateway": map[string]any{
			"namespace": "tradelink",
			"access":    "",
		},
		"sync": map[string]any{
			"probeInterval": "30s",
			"fetchTimeout":  "15s",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "GATEWAY_NAMESPACE", want: "gateway.namespace"},
		{envKey: "SYNC_PROBEINTERVAL", want: "sync.probeInterval"},
		{envKey: "SYNC_FETCHTIMEOUT", want: "sync.fetchTimeout"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
