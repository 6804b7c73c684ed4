// Package catalog discovers interaction matrices on disk and extracts the
// structured identity encoded in their filenames. Directory names carry no
// semantic weight; only the delimiter-separated filename identifies a
// matrix, so folder layout can vary freely between datasets.
package catalog
