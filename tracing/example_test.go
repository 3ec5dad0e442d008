package tracing_test

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"

	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/aggregate"
	"github.com/flowstate/flowstate/dsl"
	"github.com/flowstate/flowstate/eventstore/memory"
	"github.com/flowstate/flowstate/flow"
	"github.com/flowstate/flowstate/tracing"
)

// Example_jaegerWiring shows how an embedding application points
// tracing.Runtime at a real tracer: flowstate never constructs one itself
// (spec §1 places tracing backends out of the module's scope), it only
// calls opentracing.StartSpanFromContext against whatever global tracer
// the application installed.
func Example_jaegerWiring() {
	tracer, closer := jaeger.NewTracer(
		"flowstate-example",
		jaeger.NewConstSampler(false),
		jaeger.NewNullReporter(),
	)
	defer closer.Close()
	opentracing.SetGlobalTracer(tracer)

	var zero flow.CommandHandler[any, any]
	def := aggregate.Definition[any, any]{
		Tag:            flowstate.TagOf("Ping"),
		InitialHandler: zero,
		Flow: dsl.Handler(
			dsl.EmitEvent[Ping, Ponged](dsl.When[Ping](nil), func(p Ping) Ponged { return Ponged{ID: p.ID} }).NoSwitch(),
		),
	}

	store := memory.New[any](memory.DefaultStoreConfig[any]())
	rt := tracing.NewRuntime(aggregate.New(def, nil), "Ping")

	if _, err := rt.ApplyCommand(context.Background(), store, "a", Ping{ID: "a"}); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("applied")
	// Output: applied
}
