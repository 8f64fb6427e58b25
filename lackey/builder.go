package lackey

import (
	"io"
	"log"
)

// Builder can build Converters.
type Builder struct {
	policy   MalformedLinePolicy
	logger   *log.Logger
	progress ProgressTracker
}

// MakeBuilder creates a builder with default parameters. By default, the
// converter fails fast and logs nothing.
func MakeBuilder() Builder {
	return Builder{
		policy: FailFast,
		logger: log.New(io.Discard, "", 0),
	}
}

// WithMalformedLinePolicy sets what to do with lines that fail to parse.
func (b Builder) WithMalformedLinePolicy(policy MalformedLinePolicy) Builder {
	b.policy = policy
	return b
}

// WithLogger sets the logger that receives skip warnings.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithProgressTracker sets the tracker that is told about consumed bytes.
func (b Builder) WithProgressTracker(progress ProgressTracker) Builder {
	b.progress = progress
	return b
}

// Build creates a Converter.
func (b Builder) Build() *Converter {
	if b.logger == nil {
		panic("logger must not be nil")
	}

	return &Converter{
		policy:   b.policy,
		logger:   b.logger,
		progress: b.progress,
	}
}
