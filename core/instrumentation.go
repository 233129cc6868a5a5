package chatstream

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/minekb/minekb-core/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	streamsCounter, _ = meter.Int64Counter("minekb.chatstream.streams",
		metric.WithDescription("Completed stream invocations, by outcome"))
	tokensCounter, _ = meter.Int64Counter("minekb.chatstream.tokens",
		metric.WithDescription("Dispatched stream token callbacks"))
)
