package initializer

import (
	"os"
	"strings"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	factory "github.com/tigerroll/simplebatch/pkg/batch/job/factory"
	joblistener "github.com/tigerroll/simplebatch/pkg/batch/job/listener"
	repository "github.com/tigerroll/simplebatch/pkg/batch/repository"
	steplistener "github.com/tigerroll/simplebatch/pkg/batch/step/listener"
	processor "github.com/tigerroll/simplebatch/pkg/batch/step/processor"
	reader "github.com/tigerroll/simplebatch/pkg/batch/step/reader"
	writer "github.com/tigerroll/simplebatch/pkg/batch/step/writer"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
)

// RegisterBuiltinComponents registers the framework's stock components so
// job definitions can refer to them by name without any application code.
func RegisterBuiltinComponents(registry *factory.ComponentRegistry, repo repository.ReportRepository) error {
	if err := registry.RegisterReader("flatFileReader", buildFlatFileReader); err != nil {
		return err
	}
	if err := registry.RegisterReader("csvReader", buildCSVReader); err != nil {
		return err
	}
	if err := registry.RegisterProcessor("csvMarshaller", buildCSVMarshaller); err != nil {
		return err
	}
	if err := registry.RegisterWriter("flatFileWriter", buildFlatFileWriter); err != nil {
		return err
	}
	if err := registry.RegisterWriter("stdoutWriter", buildStdoutWriter); err != nil {
		return err
	}
	if err := registry.RegisterListener("loggingJobListener", func(cfg *config.Config, properties map[string]string) (interface{}, error) {
		return joblistener.NewLoggingJobListener(), nil
	}); err != nil {
		return err
	}
	if err := registry.RegisterListener("loggingBatchListener", func(cfg *config.Config, properties map[string]string) (interface{}, error) {
		return steplistener.NewLoggingBatchListener(), nil
	}); err != nil {
		return err
	}
	if err := registry.RegisterListener("loggingReaderListener", func(cfg *config.Config, properties map[string]string) (interface{}, error) {
		return steplistener.NewLoggingRecordReaderListener(), nil
	}); err != nil {
		return err
	}
	if err := registry.RegisterListener("loggingWriterListener", func(cfg *config.Config, properties map[string]string) (interface{}, error) {
		return steplistener.NewLoggingRecordWriterListener(), nil
	}); err != nil {
		return err
	}
	if err := registry.RegisterListener("loggingPipelineListener", func(cfg *config.Config, properties map[string]string) (interface{}, error) {
		return steplistener.NewLoggingPipelineListener(), nil
	}); err != nil {
		return err
	}
	if err := registry.RegisterListener("persistenceListener", func(cfg *config.Config, properties map[string]string) (interface{}, error) {
		return joblistener.NewPersistenceJobListener(repo), nil
	}); err != nil {
		return err
	}
	if err := registry.RegisterListener("zipCompressListener", buildZipCompressListener); err != nil {
		return err
	}
	if err := registry.RegisterListener("zipDecompressListener", buildZipDecompressListener); err != nil {
		return err
	}
	return nil
}

func requireProperty(component string, properties map[string]string, key string) (string, error) {
	value := properties[key]
	if value == "" {
		return "", exception.NewBatchErrorf(exception.KindConfiguration, module,
			"component '%s' requires a '%s' property", component, key)
	}
	return value, nil
}

func buildFlatFileReader(cfg *config.Config, properties map[string]string) (core.RecordReader, error) {
	path, err := requireProperty("flatFileReader", properties, "path")
	if err != nil {
		return nil, err
	}
	return reader.NewFlatFileRecordReader(path), nil
}

func buildCSVReader(cfg *config.Config, properties map[string]string) (core.RecordReader, error) {
	path, err := requireProperty("csvReader", properties, "path")
	if err != nil {
		return nil, err
	}
	var opts []reader.CSVOption
	if properties["skip-header"] == "true" {
		opts = append(opts, reader.WithSkipHeader())
	}
	if comma := properties["comma"]; comma != "" {
		runes := []rune(comma)
		if len(runes) != 1 {
			return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
				"component 'csvReader': 'comma' must be a single character, got %q", comma)
		}
		opts = append(opts, reader.WithComma(runes[0]))
	}
	return reader.NewCSVRecordReader(path, opts...), nil
}

func buildCSVMarshaller(cfg *config.Config, properties map[string]string) (core.RecordProcessor, error) {
	return processor.NewCSVMarshallingProcessor(), nil
}

func buildFlatFileWriter(cfg *config.Config, properties map[string]string) (core.RecordWriter, error) {
	path, err := requireProperty("flatFileWriter", properties, "path")
	if err != nil {
		return nil, err
	}
	return writer.NewFlatFileRecordWriter(path), nil
}

func buildStdoutWriter(cfg *config.Config, properties map[string]string) (core.RecordWriter, error) {
	return writer.NewStreamRecordWriter(os.Stdout), nil
}

func buildZipCompressListener(cfg *config.Config, properties map[string]string) (interface{}, error) {
	archive, err := requireProperty("zipCompressListener", properties, "archive")
	if err != nil {
		return nil, err
	}
	sourcesValue, err := requireProperty("zipCompressListener", properties, "sources")
	if err != nil {
		return nil, err
	}
	sources := strings.Split(sourcesValue, ",")
	for i := range sources {
		sources[i] = strings.TrimSpace(sources[i])
	}
	return joblistener.NewZipCompressListener(archive, sources...), nil
}

func buildZipDecompressListener(cfg *config.Config, properties map[string]string) (interface{}, error) {
	archive, err := requireProperty("zipDecompressListener", properties, "archive")
	if err != nil {
		return nil, err
	}
	target, err := requireProperty("zipDecompressListener", properties, "target")
	if err != nil {
		return nil, err
	}
	return joblistener.NewZipDecompressListener(archive, target), nil
}
