package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// TraceSegment wraps fn in an X-Ray subsegment, recording any error on it.
// Outside an active trace the subsegment is a no-op.
func TraceSegment(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, seg := xray.BeginSubsegment(ctx, name)
	err := fn(ctx)
	if seg != nil {
		seg.Close(err)
	}
	return err
}
