// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jdfalk/dashboard-search/internal/config"
	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/records"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func newDiagnosticsCmd() *cobra.Command {
	diagnosticsCmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and tuning helpers",
		Long:  "Diagnostic utilities for inspecting datasets and matcher scores.",
	}

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List searchable field paths in a dataset file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			return runDiagnosticsFields(cmd.OutOrStdout(), file)
		},
	}
	fieldsCmd.Flags().StringP("file", "f", "", "dataset file")
	_ = fieldsCmd.MarkFlagRequired("file")

	scoreCmd := &cobra.Command{
		Use:   "score QUERY VALUE...",
		Short: "Show how each value scores against a query",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnosticsScore(cmd.OutOrStdout(), args[0], args[1:])
		},
	}

	diagnosticsCmd.AddCommand(fieldsCmd)
	diagnosticsCmd.AddCommand(scoreCmd)
	return diagnosticsCmd
}

type fieldStats struct {
	count  int
	sample string
}

// collectFields walks nested objects and counts every leaf path.
func collectFields(prefix string, rec map[string]any, stats map[string]*fieldStats) {
	for key, value := range rec {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			collectFields(path, child, stats)
			continue
		}
		if value == nil {
			continue
		}
		st, ok := stats[path]
		if !ok {
			st = &fieldStats{}
			stats[path] = st
		}
		st.count++
		if st.sample == "" {
			st.sample, _ = cast.ToStringE(value)
		}
	}
}

func runDiagnosticsFields(out io.Writer, file string) error {
	recs, err := records.Load(file, config.AppConfig.MaxRecords)
	if err != nil {
		return err
	}

	stats := make(map[string]*fieldStats)
	for _, rec := range recs {
		collectFields("", rec, stats)
	}

	fmt.Fprintf(out, "%d records, %d field paths\n", len(recs), len(stats))
	for _, path := range slices.Sorted(maps.Keys(stats)) {
		st := stats[path]
		fmt.Fprintf(out, "  %-30s %5d/%d  %s\n", path, st.count, len(recs), truncateString(st.sample, 40))
	}
	return nil
}

func runDiagnosticsScore(out io.Writer, query string, values []string) error {
	m := matcher.New(config.AppConfig.MatchOptions())
	threshold := m.Options().Threshold
	q := strings.ToLower(strings.TrimSpace(query))

	for _, v := range values {
		score := m.Score(query, v)
		verdict := "miss"
		if score >= threshold {
			verdict = "match"
		}
		distance := matcher.EditDistance(q, strings.ToLower(strings.TrimSpace(v)))
		fmt.Fprintf(out, "%-30s score=%.3f distance=%d %s\n", truncateString(v, 30), score, distance, verdict)
	}
	return nil
}

func truncateString(in string, max int) string {
	if max <= 3 {
		return in
	}
	runes := []rune(in)
	if len(runes) <= max {
		return in
	}
	return string(runes[:max-3]) + "..."
}
