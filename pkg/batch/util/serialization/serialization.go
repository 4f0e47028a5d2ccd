package serialization

import (
	"encoding/json"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
)

const module = "serialization"

// MarshalJobParameters serializes JobParameters to a JSON byte slice.
func MarshalJobParameters(params core.JobParameters) ([]byte, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to serialize job parameters", err)
	}
	return data, nil
}

// UnmarshalJobParameters deserializes a JSON byte slice into JobParameters.
// Empty input yields the default parameter set.
func UnmarshalJobParameters(data []byte) (core.JobParameters, error) {
	params := core.NewJobParameters()
	if len(data) == 0 || string(data) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, exception.NewBatchError(exception.KindPersistence, module, "failed to deserialize job parameters", err)
	}
	return params, nil
}

// MarshalSystemInfo serializes a system info map to a JSON byte slice.
func MarshalSystemInfo(info map[string]string) ([]byte, error) {
	if info == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to serialize system info", err)
	}
	return data, nil
}

// UnmarshalSystemInfo deserializes a JSON byte slice into a system info map.
// Empty input yields an empty map.
func UnmarshalSystemInfo(data []byte) (map[string]string, error) {
	info := make(map[string]string)
	if len(data) == 0 || string(data) == "null" {
		return info, nil
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, exception.NewBatchError(exception.KindPersistence, module, "failed to deserialize system info", err)
	}
	return info, nil
}
