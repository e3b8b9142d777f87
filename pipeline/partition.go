package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/dataprep/dataset"
)

// Factory builds a fresh pipeline for one partition.
type Factory func(partition int) (*Pipeline, error)

// ExecutePartitions runs every partition through its own pipeline, at most
// limit at a time (0 means no limit). Order is preserved within a partition.
// Pipeline.Execute clones the metadata of each partition, so no Row or
// RowMetadata is shared across partitions. The first failure cancels the others.
func ExecutePartitions(ctx context.Context, partitions []*dataset.DataSet, build Factory, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ds := range partitions {
		g.Go(func() error {
			p, err := build(i)
			if err != nil {
				return err
			}
			return p.Execute(ctx, ds)
		})
	}
	return g.Wait()
}
