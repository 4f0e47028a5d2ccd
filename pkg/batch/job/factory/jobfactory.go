package factory

import (
	"fmt"

	config "github.com/tigerroll/simplebatch/pkg/batch/config"
	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	definition "github.com/tigerroll/simplebatch/pkg/batch/job/definition"
	runner "github.com/tigerroll/simplebatch/pkg/batch/job/runner"
	exception "github.com/tigerroll/simplebatch/pkg/batch/util/exception"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// JobFactory turns job definitions into runnable jobs by resolving every
// component reference against a registry. Run tuning falls back to the
// configured defaults for anything the definition leaves out.
type JobFactory struct {
	cfg      *config.Config
	registry *ComponentRegistry
	monitor  core.JobMonitor
}

// NewJobFactory creates a factory resolving against registry.
func NewJobFactory(cfg *config.Config, registry *ComponentRegistry) *JobFactory {
	return &JobFactory{cfg: cfg, registry: registry}
}

// SetMonitor sets the monitor handed to jobs whose definition enables
// monitoring. Jobs built without one fall back to a logging monitor.
func (f *JobFactory) SetMonitor(monitor core.JobMonitor) {
	f.monitor = monitor
}

// CreateJob builds a runnable job from the definition. An unresolvable
// reference or a failing component builder is a configuration error.
func (f *JobFactory) CreateJob(def *definition.JobDefinition) (core.Job, error) {
	if err := def.Validate(); err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			"invalid job definition", err)
	}

	params := def.Parameters(f.cfg.Batch.JobParameters())
	builder := runner.NewJobBuilder().
		Named(params.Name).
		BatchSize(params.BatchSize).
		ErrorThreshold(params.ErrorThreshold)

	readerBuilder, ok := f.registry.reader(def.Reader.Ref)
	if !ok {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
			"job '%s': reader '%s' is not registered", def.Name, def.Reader.Ref)
	}
	reader, err := readerBuilder(f.cfg, def.Reader.Properties)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			fmt.Sprintf("job '%s': failed to build reader '%s'", def.Name, def.Reader.Ref), err)
	}
	builder.Reader(reader)

	if !def.Processor.IsZero() {
		processorBuilder, ok := f.registry.processor(def.Processor.Ref)
		if !ok {
			return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
				"job '%s': processor '%s' is not registered", def.Name, def.Processor.Ref)
		}
		processor, err := processorBuilder(f.cfg, def.Processor.Properties)
		if err != nil {
			return nil, exception.NewBatchError(exception.KindConfiguration, module,
				fmt.Sprintf("job '%s': failed to build processor '%s'", def.Name, def.Processor.Ref), err)
		}
		builder.Processor(processor)
	}

	writerBuilder, ok := f.registry.writer(def.Writer.Ref)
	if !ok {
		return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
			"job '%s': writer '%s' is not registered", def.Name, def.Writer.Ref)
	}
	writer, err := writerBuilder(f.cfg, def.Writer.Properties)
	if err != nil {
		return nil, exception.NewBatchError(exception.KindConfiguration, module,
			fmt.Sprintf("job '%s': failed to build writer '%s'", def.Name, def.Writer.Ref), err)
	}
	builder.Writer(writer)

	for _, ref := range def.Listeners {
		listenerBuilder, ok := f.registry.listener(ref.Ref)
		if !ok {
			return nil, exception.NewBatchErrorf(exception.KindConfiguration, module,
				"job '%s': listener '%s' is not registered", def.Name, ref.Ref)
		}
		instance, err := listenerBuilder(f.cfg, ref.Properties)
		if err != nil {
			return nil, exception.NewBatchError(exception.KindConfiguration, module,
				fmt.Sprintf("job '%s': failed to build listener '%s'", def.Name, ref.Ref), err)
		}
		if err := attachListener(builder, ref.Ref, instance); err != nil {
			return nil, err
		}
	}

	if params.Monitoring {
		monitor := f.monitor
		if monitor == nil {
			monitor = runner.NewLoggingJobMonitor()
		}
		builder.EnableMonitoring(monitor)
	}

	job, err := builder.Build()
	if err != nil {
		return nil, err
	}
	logger.Debugf("created job '%s' from definition", params.Name)
	return job, nil
}

// CreateJobs builds one job per registered definition, in name order.
// The first failing definition aborts the assembly.
func (f *JobFactory) CreateJobs(registry *definition.Registry) ([]core.Job, error) {
	jobs := make([]core.Job, 0, registry.Len())
	for _, name := range registry.Names() {
		def, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		job, err := f.CreateJob(def)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// attachListener hooks instance into every listener category it
// implements. A single component may observe several categories at once.
func attachListener(builder *runner.JobBuilder, name string, instance interface{}) error {
	matched := false
	if l, ok := instance.(core.JobListener); ok {
		builder.JobListener(l)
		matched = true
	}
	if l, ok := instance.(core.BatchListener); ok {
		builder.BatchListener(l)
		matched = true
	}
	if l, ok := instance.(core.RecordReaderListener); ok {
		builder.ReaderListener(l)
		matched = true
	}
	if l, ok := instance.(core.RecordWriterListener); ok {
		builder.WriterListener(l)
		matched = true
	}
	if l, ok := instance.(core.PipelineListener); ok {
		builder.PipelineListener(l)
		matched = true
	}
	if !matched {
		return exception.NewBatchErrorf(exception.KindConfiguration, module,
			"listener '%s' (%T) implements no listener interface", name, instance)
	}
	return nil
}
