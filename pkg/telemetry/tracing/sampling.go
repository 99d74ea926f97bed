package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"mercator-hq/gcpolicy/pkg/config"
)

// Values accepted for telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio" // uses telemetry.tracing.sample_ratio
)

// newSampler picks the root sampler for admin call spans. Spans started
// under a sampled parent, such as a reconcile run, follow the parent.
func newSampler(cfg *config.TracingConfig) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler
	switch cfg.Sampler {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio, "":
		if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
			return nil, fmt.Errorf("telemetry.tracing.sample_ratio %v is outside [0, 1]", cfg.SampleRatio)
		}
		root = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	default:
		return nil, fmt.Errorf("telemetry.tracing.sampler %q is not one of %s, %s, %s",
			cfg.Sampler, SamplerAlways, SamplerNever, SamplerRatio)
	}
	return sdktrace.ParentBased(root), nil
}
