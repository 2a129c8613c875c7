package sheets

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observer records the latency and outcome of one gateway operation.
// *observability.Prom implements it.
type Observer interface {
	ObserveSheets(op string, fn func() error) error
}

const tracerName = "github.com/geocoder89/lentpath/internal/sheets"

// ObservedGateway wraps every operation in a span and, when an Observer is
// set, in Prometheus metrics.
type ObservedGateway struct {
	next   Gateway
	obs    Observer
	tracer trace.Tracer
}

func NewObservedGateway(next Gateway, obs Observer) *ObservedGateway {
	return &ObservedGateway{
		next:   next,
		obs:    obs,
		tracer: otel.Tracer(tracerName),
	}
}

func (g *ObservedGateway) Open(ctx context.Context, name string) (Table, error) {
	var t Table

	err := g.do(ctx, "open", name, func(ctx context.Context) error {
		var err error
		t, err = g.next.Open(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &observedTable{next: t, gw: g}, nil
}

// Ping forwards readiness checks when the wrapped gateway supports them.
func (g *ObservedGateway) Ping(ctx context.Context) error {
	if p, ok := g.next.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (g *ObservedGateway) do(ctx context.Context, op, table string, fn func(context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, "sheets."+op, trace.WithAttributes(
		attribute.String("sheets.table", table),
	))
	defer span.End()

	run := func() error { return fn(ctx) }

	var err error
	if g.obs != nil {
		err = g.obs.ObserveSheets(op, run)
	} else {
		err = run()
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

type observedTable struct {
	next Table
	gw   *ObservedGateway
}

func (t *observedTable) Name() string {
	return t.next.Name()
}

func (t *observedTable) ReadAll(ctx context.Context) (Records, error) {
	var rec Records

	err := t.gw.do(ctx, "read_all", t.next.Name(), func(ctx context.Context) error {
		var err error
		rec, err = t.next.ReadAll(ctx)
		return err
	})

	return rec, err
}

func (t *observedTable) AppendRow(ctx context.Context, values []string) error {
	return t.gw.do(ctx, "append_row", t.next.Name(), func(ctx context.Context) error {
		return t.next.AppendRow(ctx, values)
	})
}
