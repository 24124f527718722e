// Package operations runs the downtime pipeline as an ordered list of steps.
//
// Each Step declares the files it reads and writes. The Manager runs the
// registered steps one after another: before a step starts its inputs must
// exist on disk, and the first failing step aborts the run. There are no
// retries and no parallel execution.
//
// Steps are grouped into stages selectable from the command line:
//
//	prepare   raw workbook -> four cleaned tables
//	features  event, hourly and daily features, event->hour and hour->day reconciliation
//	analysis  duration summary, duration distribution, burst summary
//	all       the three groups in that order
//
// Every run gets a UUID run ID that is carried in the context as the log
// trace ID, one span per run and per step, and a JSON PipelineManifest
// describing what ran and which files were written.
//
// Example usage:
//
//	opts := operations.StageOptionsFromConfig(cfg, paths, logger)
//	registry, err := operations.NewPipelineRegistry(operations.StageAll, opts)
//	if err != nil {
//		return err
//	}
//	manager := operations.NewManager(registry,
//		operations.WithLogger(logger),
//		operations.WithManifestPath(paths.ManifestFile))
//	resp, err := manager.Run(ctx, operations.RunRequest{Stage: operations.StageAll})
package operations
