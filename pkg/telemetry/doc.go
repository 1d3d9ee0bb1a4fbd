// Package telemetry holds the Prometheus metrics and OpenTelemetry spans the
// view engine reports.
//
// Both recorders are optional. The zero value of each (a nil pointer) is a
// valid recorder that does nothing:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	v, err := view.Build(ctx, res, b, view.WithMetrics(m))
package telemetry
