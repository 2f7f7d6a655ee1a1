// Package metrics records generation metrics.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and costs nothing; PrometheusRecorder registers its collectors
// on a registry that can be written out in the text exposition format for the
// node exporter's textfile collector:
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	err := metrics.WriteTextfile(reg, "/var/lib/node_exporter/refdoc.prom")
package metrics
