// Package sweep enumerates the parameter space for one matrix and
// materializes each point of the cartesian product as a self-contained job.
// Jobs are stateless value objects: completion is never stored on them, it
// is re-derived from the filesystem, so a job can always be re-created and
// re-dispatched safely.
package sweep
