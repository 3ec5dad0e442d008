package tracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/flowstate/flowstate/eventstore"
	"github.com/flowstate/flowstate/projection"
)

// Advance wraps projection.Advance with a span named after the
// projection, tagging the resulting cursor the way tracing/commandhandler.go
// tags the command outcome.
func Advance[D any](ctx context.Context, log eventstore.OperationLog, cfg projection.DriverConfig, p projection.Projection[D]) (projection.Projection[D], error) {
	sp, ctx := opentracing.StartSpanFromContext(ctx, "Projection("+p.Name+").Advance")
	defer sp.Finish()

	next, err := projection.Advance(ctx, log, cfg, p)

	sp.SetTag("flowstate.projection", p.Name)
	sp.SetTag("flowstate.cursor", next.Cursor)
	if err != nil {
		ext.LogError(sp, err)
	}
	return next, err
}
