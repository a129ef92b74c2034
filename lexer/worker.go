package lexer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Start runs Scan in a separate goroutine. The request is copied before Start returns,
// so caller may reuse it. Exactly one response is sent to the returned channel.
// If ctx is already done when the worker starts, the response contains ctx error only.
func Start(ctx context.Context, req Request) <-chan Response {
	res := make(chan Response, 1)
	req = req.copy()
	go func() {
		defer close(res)
		if e := ctx.Err(); e != nil {
			res <- Response{Err: e}
			return
		}
		res <- Scan(req)
	}()
	return res
}

// ScanAll scans independent requests in parallel, running at most limit workers at a time
// (no limit if limit <= 0). Responses are in request order.
func ScanAll(ctx context.Context, reqs []Request, limit int) ([]Response, error) {
	res := make([]Response, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range reqs {
		g.Go(func() error {
			select {
			case r := <-Start(ctx, reqs[i]):
				res[i] = r
				return r.Err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if e := g.Wait(); e != nil {
		return nil, e
	}
	return res, nil
}
