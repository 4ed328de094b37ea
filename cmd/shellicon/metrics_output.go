package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/common/expfmt"

	"github.com/justyntemme/shellicon/internal/metrics"
)

func printMetrics(w io.Writer, m *metrics.Metrics) error {
	if m == nil {
		return nil
	}
	samples, err := m.Snapshot()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{s.Name, formatLabels(s.Labels), strconv.FormatFloat(s.Value, 'f', -1, 64)})
	}
	fmt.Fprintln(w, renderTable(w, []string{"Metric", "Labels", "Value"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight}))
	return nil
}

func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, " ")
}

// writeMetricsFile writes the registry in the Prometheus text format, for
// node_exporter's textfile collector or a later diff between runs.
func writeMetricsFile(path string, m *metrics.Metrics) error {
	if m == nil {
		return nil
	}
	families, err := m.Registry().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return f.Close()
}
