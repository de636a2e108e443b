package main

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/finder"
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"
)

const errTypeQuery = "query-error"

// query is one position read from the input.
type query struct {
	Line      int
	Position  v3.Vec
	Direction v3.Vec
	Err       error
}

// result is the JSON line written for a query.
type result struct {
	Line     int        `json:"line"`
	Position [3]float64 `json:"position"`
	Volume   string     `json:"volume,omitempty"`
	Found    bool       `json:"found"`
	Error    string     `json:"error,omitempty"`
}

// parseQuery parses "x y z [dx dy dz]". Blank lines and lines starting with
// '#' are skipped.
func parseQuery(line string, n int) (query, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return query{}, false
	}

	q := query{Line: n}
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 6 {
		q.Err = errors.Newf("want 3 or 6 numbers, got %d", len(fields)).
			WithType(errTypeQuery).
			WithTag("line", n)
		return q, true
	}

	var vals [6]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			q.Err = errors.Newf("invalid number %q", f).
				WithType(errTypeQuery).
				WithTag("line", n).
				Wrap(err)
			return q, true
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			q.Err = errors.Newf("non-finite number %q", f).
				WithType(errTypeQuery).
				WithTag("line", n)
			return q, true
		}
		vals[i] = v
	}
	q.Position = v3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}
	q.Direction = v3.Vec{X: vals[3], Y: vals[4], Z: vals[5]}
	return q, true
}

// resolve answers the queries with at most workers concurrent lookups. The
// results keep the order of qs.
func resolve(ctx context.Context, d finder.Delegate, gctx volume.GeometryContext, qs []query, workers int) ([]result, error) {
	out := make([]result, len(qs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range qs {
		q := qs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r := result{
				Line:     q.Line,
				Position: [3]float64{q.Position.X, q.Position.Y, q.Position.Z},
			}
			if q.Err != nil {
				r.Error = q.Err.Error()
			} else if v, ok := d.Find(gctx, q.Position, q.Direction); ok {
				r.Volume = v.Name()
				r.Found = true
			}
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// process reads queries from r in batches of batchSize, resolves each batch
// and writes one JSON object per line to w. It returns the number of
// queries answered.
func process(ctx context.Context, d finder.Delegate, r io.Reader, w io.Writer, batchSize, workers int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1
	}

	scanner := bufio.NewScanner(r)
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	var total int
	batch := make([]query, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results, err := resolve(ctx, d, volume.GeometryContext{}, batch, workers)
		if err != nil {
			return err
		}
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return errors.New("writing result failed").Wrap(err)
			}
		}
		total += len(batch)
		batch = batch[:0]
		return bw.Flush()
	}

	for n := 1; scanner.Scan(); n++ {
		q, ok := parseQuery(scanner.Text(), n)
		if !ok {
			continue
		}
		batch = append(batch, q)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return total, errors.New("reading queries failed").Wrap(err)
	}
	return total, flush()
}
