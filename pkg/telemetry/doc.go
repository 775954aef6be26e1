// Package telemetry observes render passes.
//
// A render driver fills a Pass for every build, diff and patch cycle and
// hands it to its observers. Metrics exports pass counts, phase durations,
// operation counts and retained-state gauges to Prometheus; Tracer wraps
// each pass in an OpenTelemetry span with one event per phase.
//
// Both are opt-in. Metrics registers on prometheus.DefaultRegisterer unless
// WithRegistry is given, and Tracer resolves its tracer from the global
// provider unless WithTracerProvider is given:
//
//	reg := prometheus.NewRegistry()
//	app := hart.New(doc, root,
//	    hart.WithMetrics(telemetry.NewMetrics(telemetry.WithRegistry(reg))),
//	    hart.WithTracer(telemetry.NewTracer()),
//	)
package telemetry
