package factory

import (
	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

const module = "factory"

// ReaderBuilder creates a record reader from the configuration and the
// properties of a definition reference.
type ReaderBuilder func(cfg *config.Config, properties map[string]string) (core.RecordReader, error)

// ProcessorBuilder creates a record processor from the configuration and
// the properties of a definition reference.
type ProcessorBuilder func(cfg *config.Config, properties map[string]string) (core.RecordProcessor, error)

// WriterBuilder creates a record writer from the configuration and the
// properties of a definition reference.
type WriterBuilder func(cfg *config.Config, properties map[string]string) (core.RecordWriter, error)

// ListenerBuilder creates a listener from the configuration and the
// properties of a definition reference. The returned value must implement
// at least one of the listener interfaces; the factory attaches it to
// every category it implements.
type ListenerBuilder func(cfg *config.Config, properties map[string]string) (interface{}, error)

// ComponentRegistry maps component names to their builders. Registration
// happens during application start-up; definitions refer to components by
// these names.
type ComponentRegistry struct {
	readers    map[string]ReaderBuilder
	processors map[string]ProcessorBuilder
	writers    map[string]WriterBuilder
	listeners  map[string]ListenerBuilder
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		readers:    make(map[string]ReaderBuilder),
		processors: make(map[string]ProcessorBuilder),
		writers:    make(map[string]WriterBuilder),
		listeners:  make(map[string]ListenerBuilder),
	}
}

// RegisterReader registers a reader builder under name. Registering the
// same name twice is a configuration error, not a silent overwrite.
func (r *ComponentRegistry) RegisterReader(name string, builder ReaderBuilder) error {
	if _, exists := r.readers[name]; exists {
		return exception.NewBatchErrorf(exception.KindConfiguration, module,
			"reader '%s' is already registered", name)
	}
	r.readers[name] = builder
	logger.Debugf("registered reader builder '%s'", name)
	return nil
}

// RegisterProcessor registers a processor builder under name.
func (r *ComponentRegistry) RegisterProcessor(name string, builder ProcessorBuilder) error {
	if _, exists := r.processors[name]; exists {
		return exception.NewBatchErrorf(exception.KindConfiguration, module,
			"processor '%s' is already registered", name)
	}
	r.processors[name] = builder
	logger.Debugf("registered processor builder '%s'", name)
	return nil
}

// RegisterWriter registers a writer builder under name.
func (r *ComponentRegistry) RegisterWriter(name string, builder WriterBuilder) error {
	if _, exists := r.writers[name]; exists {
		return exception.NewBatchErrorf(exception.KindConfiguration, module,
			"writer '%s' is already registered", name)
	}
	r.writers[name] = builder
	logger.Debugf("registered writer builder '%s'", name)
	return nil
}

// RegisterListener registers a listener builder under name.
func (r *ComponentRegistry) RegisterListener(name string, builder ListenerBuilder) error {
	if _, exists := r.listeners[name]; exists {
		return exception.NewBatchErrorf(exception.KindConfiguration, module,
			"listener '%s' is already registered", name)
	}
	r.listeners[name] = builder
	logger.Debugf("registered listener builder '%s'", name)
	return nil
}

func (r *ComponentRegistry) reader(name string) (ReaderBuilder, bool) {
	builder, ok := r.readers[name]
	return builder, ok
}

func (r *ComponentRegistry) processor(name string) (ProcessorBuilder, bool) {
	builder, ok := r.processors[name]
	return builder, ok
}

func (r *ComponentRegistry) writer(name string) (WriterBuilder, bool) {
	builder, ok := r.writers[name]
	return builder, ok
}

func (r *ComponentRegistry) listener(name string) (ListenerBuilder, bool) {
	builder, ok := r.listeners[name]
	return builder, ok
}
