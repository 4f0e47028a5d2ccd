package definition

import (
	"fmt"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
)

// JobDefinition is the declarative description of one batch job: which
// components make up the pipeline and how the run is tuned. Definitions
// come from YAML documents and are resolved against a component registry
// at build time.
type JobDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// BatchSize, ErrorThreshold and Monitoring override the configured
	// defaults when present. Pointers keep an explicit zero apart from an
	// absent field: error-threshold 0 means fail on the first error, a
	// missing error-threshold means use the default.
	BatchSize      *int   `yaml:"batch-size,omitempty"`
	ErrorThreshold *int64 `yaml:"error-threshold,omitempty"`
	Monitoring     *bool  `yaml:"monitoring,omitempty"`

	Reader    ComponentRef   `yaml:"reader"`
	Processor ComponentRef   `yaml:"processor,omitempty"`
	Writer    ComponentRef   `yaml:"writer"`
	Listeners []ComponentRef `yaml:"listeners,omitempty"`
}

// ComponentRef refers to a registered component by name. Properties are
// handed to the component's builder verbatim.
type ComponentRef struct {
	Ref        string            `yaml:"ref"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// IsZero reports whether the reference is absent.
func (r ComponentRef) IsZero() bool {
	return r.Ref == ""
}

// Validate checks the definition for holes a job cannot be built from.
func (d *JobDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("job definition has no name")
	}
	if d.Reader.IsZero() {
		return fmt.Errorf("job '%s' has no reader", d.Name)
	}
	if d.Writer.IsZero() {
		return fmt.Errorf("job '%s' has no writer", d.Name)
	}
	if d.BatchSize != nil && *d.BatchSize <= 0 {
		return fmt.Errorf("job '%s': batch size must be positive, got %d", d.Name, *d.BatchSize)
	}
	for i, listener := range d.Listeners {
		if listener.IsZero() {
			return fmt.Errorf("job '%s': listener %d has no ref", d.Name, i+1)
		}
	}
	return nil
}

// Parameters merges the definition over the given defaults. A negative
// error threshold means unlimited, matching the configuration layer.
func (d *JobDefinition) Parameters(defaults core.JobParameters) core.JobParameters {
	params := defaults
	params.Name = d.Name
	if d.BatchSize != nil {
		params.BatchSize = *d.BatchSize
	}
	if d.ErrorThreshold != nil {
		if *d.ErrorThreshold < 0 {
			params.ErrorThreshold = core.UnlimitedErrorThreshold
		} else {
			params.ErrorThreshold = *d.ErrorThreshold
		}
	}
	if d.Monitoring != nil {
		params.Monitoring = *d.Monitoring
	}
	return params
}
