package tracing

import (
	"strings"
	"testing"

	"mercator-hq/gcpolicy/pkg/config"
)

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.TracingConfig
		wantRoot string
		wantErr  bool
	}{
		{"always", config.TracingConfig{Sampler: SamplerAlways}, "root:AlwaysOnSampler", false},
		{"never", config.TracingConfig{Sampler: SamplerNever}, "root:AlwaysOffSampler", false},
		{"ratio", config.TracingConfig{Sampler: SamplerRatio, SampleRatio: 0.5}, "root:TraceIDRatioBased{0.5}", false},
		{"empty is ratio", config.TracingConfig{SampleRatio: 1}, "root:AlwaysOnSampler", false},
		{"ratio too small", config.TracingConfig{Sampler: SamplerRatio, SampleRatio: -0.1}, "", true},
		{"ratio too large", config.TracingConfig{Sampler: SamplerRatio, SampleRatio: 1.1}, "", true},
		{"unknown", config.TracingConfig{Sampler: "sometimes"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := newSampler(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if desc := sampler.Description(); !strings.Contains(desc, tt.wantRoot) {
				t.Errorf("Description() = %q, want %q", desc, tt.wantRoot)
			}
		})
	}
}
