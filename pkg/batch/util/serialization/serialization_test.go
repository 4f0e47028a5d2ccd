package serialization_test

import (
	"testing"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	serialization "github.com/tigerroll/simplebatch/pkg/batch/util/serialization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobParametersRoundTrip(t *testing.T) {
	params := core.JobParameters{
		Name:           "transactions",
		BatchSize:      25,
		ErrorThreshold: 3,
		Monitoring:     true,
	}

	data, err := serialization.MarshalJobParameters(params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"transactions","batch_size":25,"error_threshold":3,"monitoring":true}`, string(data))

	restored, err := serialization.UnmarshalJobParameters(data)
	require.NoError(t, err)
	assert.Equal(t, params, restored)
}

func TestUnmarshalJobParametersEmptyInputYieldsDefaults(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "empty", data: []byte{}},
		{name: "json null", data: []byte("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := serialization.UnmarshalJobParameters(tt.data)
			require.NoError(t, err)
			assert.Equal(t, core.NewJobParameters(), params)
		})
	}
}

func TestUnmarshalJobParametersInvalidJSON(t *testing.T) {
	_, err := serialization.UnmarshalJobParameters([]byte("{not json"))
	assert.Error(t, err)
}

func TestSystemInfoRoundTrip(t *testing.T) {
	info := map[string]string{"hostname": "worker-1", "os": "linux"}

	data, err := serialization.MarshalSystemInfo(info)
	require.NoError(t, err)

	restored, err := serialization.UnmarshalSystemInfo(data)
	require.NoError(t, err)
	assert.Equal(t, info, restored)
}

func TestMarshalSystemInfoNilMap(t *testing.T) {
	data, err := serialization.MarshalSystemInfo(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestUnmarshalSystemInfoEmptyInput(t *testing.T) {
	info, err := serialization.UnmarshalSystemInfo(nil)
	require.NoError(t, err)
	assert.NotNil(t, info)
	assert.Empty(t, info)
}
