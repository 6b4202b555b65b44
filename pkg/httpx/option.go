package httpx

import "time"

type Option func(*LoggingRoundTripper)

// Observer receives the outcome of every exchange. Status is 0 when the
// upstream could not be reached.
type Observer func(upstream string, status int, elapsed time.Duration)

func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithUpstreamName labels every log line with the remote service name.
func WithUpstreamName(name string) Option {
	return func(rt *LoggingRoundTripper) {
		rt.upstream = name
	}
}

func WithObserver(observer Observer) Option {
	return func(rt *LoggingRoundTripper) {
		rt.observer = observer
	}
}
