package oracle

import "context"

// DryRun reports what the wrapped Oracle would do without changing anything.
// Exclude returns true for a path that is not excluded yet, mirroring the
// answer a real mutation would give.
type DryRun struct {
	Oracle Oracle
}

// NewDryRun wraps o.
func NewDryRun(o Oracle) *DryRun {
	return &DryRun{Oracle: o}
}

func (d *DryRun) IsExcluded(ctx context.Context, path string) bool {
	return d.Oracle.IsExcluded(ctx, path)
}

func (d *DryRun) Exclude(ctx context.Context, path string) bool {
	return !d.Oracle.IsExcluded(ctx, path)
}

func (d *DryRun) Include(ctx context.Context, path string) bool {
	return d.Oracle.IsExcluded(ctx, path)
}
