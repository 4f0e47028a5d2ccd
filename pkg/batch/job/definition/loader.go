package definition

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

const module = "definition"

// Parse decodes a single YAML job definition and validates it.
func Parse(data []byte) (*JobDefinition, error) {
	var def JobDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			"failed to parse job definition", err)
	}
	if err := def.Validate(); err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			"invalid job definition", err)
	}
	logger.Debugf("loaded job definition '%s'", def.Name)
	return &def, nil
}

// ParseFile reads and parses the YAML job definition at path.
func ParseFile(path string) (*JobDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			fmt.Sprintf("failed to read job definition file %s", path), err)
	}
	return Parse(data)
}
