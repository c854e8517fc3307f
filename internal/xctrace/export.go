package xctrace

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// Export holds the raw table documents for one trace. Auxiliary tables are
// nil when their export failed or the instrument was absent.
type Export struct {
	Signpost    []byte
	TimeProfile []byte
	Syscall     []byte
	Allocation  []byte
}

// ExportAll runs the four table exports concurrently. The tables are disjoint
// and the runner is stateless per invocation, so the exports share nothing
// but the trace path. Only a signpost failure is returned: each auxiliary
// export degrades to nil on failure without cancelling its siblings.
func ExportAll(ctx context.Context, runner Runner, tracePath string, schemas Schemas) (*Export, error) {
	var out Export
	var g errgroup.Group

	g.Go(func() error {
		data, err := runner.Export(ctx, tracePath, schemas.Signpost)
		if err != nil {
			return err
		}
		out.Signpost = data
		return nil
	})

	aux := []struct {
		schema string
		dst    *[]byte
	}{
		{schemas.TimeProfile, &out.TimeProfile},
		{schemas.Syscall, &out.Syscall},
		{schemas.Allocation, &out.Allocation},
	}
	for _, a := range aux {
		a := a
		g.Go(func() error {
			data, err := runner.Export(ctx, tracePath, a.schema)
			if err != nil {
				log.Printf("xctrace: auxiliary %s export unavailable: %v", a.schema, err)
				return nil
			}
			*a.dst = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
