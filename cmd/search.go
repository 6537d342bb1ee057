// file: cmd/search.go
// version: 1.0.0
// guid: 2e8b4c17-5a90-4d3f-b6e1-9c7d0a2f8e45

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jdfalk/dashboard-search/internal/config"
	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/records"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	file   string
	query  string
	fields []string
	scores bool
	limit  int
}

type scoredLine struct {
	Score  float64        `json:"score"`
	Record matcher.Record `json:"record"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search a dataset file",
		Long: `Search a JSON, JSON Lines or YAML dataset file and print the matching
records best first, one JSON object per line.`,
		Example: `  dashboard-search search --file people.json --query "jon smith" --field name
  dashboard-search search --file drinks.yaml --query pepsi --field name --field brand.name --scores`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	searchCmd.Flags().StringVarP(&opts.file, "file", "f", "", "dataset file (.json, .jsonl, .ndjson, .yaml, .yml)")
	searchCmd.Flags().StringVarP(&opts.query, "query", "q", "", "search text; blank prints every record")
	searchCmd.Flags().StringArrayVar(&opts.fields, "field", nil, "dotted field path to search (repeatable)")
	searchCmd.Flags().BoolVar(&opts.scores, "scores", false, "print {score, record} objects")
	searchCmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of results, 0 for all")
	_ = searchCmd.MarkFlagRequired("file")
	return searchCmd
}

func runSearch(out, errOut io.Writer, opts searchOptions) error {
	cfg := config.AppConfig

	recs, err := records.Load(opts.file, cfg.MaxRecords)
	if err != nil {
		return err
	}

	fields := opts.fields
	if len(fields) == 0 {
		fields = cfg.DefaultFields
	}
	paths := matcher.ParseFieldPaths(fields)

	m := matcher.New(cfg.MatchOptions())
	results, err := m.Rank(recs, opts.query, paths)
	if errors.Is(err, matcher.ErrNoFields) {
		return errors.New("at least one --field is required for a non-blank query")
	}
	if err != nil {
		return err
	}
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	enc := json.NewEncoder(out)
	for _, r := range results {
		var line any = r.Record
		if opts.scores {
			line = scoredLine{Score: r.Score, Record: r.Record}
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	if len(results) == 0 && strings.TrimSpace(opts.query) != "" {
		if hints := m.Suggest(recs, opts.query, paths, cfg.SuggestLimit); len(hints) > 0 {
			fmt.Fprintf(errOut, "No matches. Did you mean: %s?\n", strings.Join(hints, ", "))
		} else {
			fmt.Fprintln(errOut, "No matches.")
		}
	}
	return nil
}
