package definition

import (
	"sort"

	"gopkg.in/yaml.v3"

	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// Registry holds validated job definitions keyed by job name.
type Registry struct {
	definitions map[string]*JobDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]*JobDefinition)}
}

// Add validates the definition and stores it under its name. Adding a
// second definition with the same name is a configuration error.
func (r *Registry) Add(def *JobDefinition) error {
	if def == nil {
		return exception.NewBatchErrorf(exception.KindConfiguration, module, "cannot register a nil job definition")
	}
	if err := def.Validate(); err != nil {
		return exception.NewBatchError(exception.KindConfiguration, module, "invalid job definition", err)
	}
	if _, exists := r.definitions[def.Name]; exists {
		return exception.NewBatchErrorf(exception.KindConfiguration, module,
			"job definition '%s' is already registered", def.Name)
	}
	r.definitions[def.Name] = def
	logger.Debugf("registered job definition '%s'", def.Name)
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*JobDefinition, error) {
	def, ok := r.definitions[name]
	if !ok {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
			"job definition '%s' is not registered", name)
	}
	return def, nil
}

// Names returns the registered job names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.definitions)
}

// ParseRegistry loads a document holding several job definitions, one
// per top-level key. A definition may omit its name, the key supplies
// it; a name that contradicts its key is rejected.
func ParseRegistry(data []byte) (*Registry, error) {
	var raw map[string]*JobDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module, "failed to parse job definitions", err)
	}

	registry := NewRegistry()
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := raw[name]
		if def == nil {
			return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
				"job definition '%s' is empty", name)
		}
		if def.Name == "" {
			def.Name = name
		} else if def.Name != name {
			return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
				"job definition under key '%s' names itself '%s'", name, def.Name)
		}
		if err := registry.Add(def); err != nil {
			return nil, err
		}
	}

	logger.Debugf("loaded %d job definition(s)", registry.Len())
	return registry, nil
}
