package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"church-site/internal/app"
	"church-site/internal/config"
	"church-site/internal/contact"
	"church-site/internal/content"
	"church-site/internal/logger"
	"church-site/internal/schema"
)

const (
	defaultListLimit   = 20
	messagePreviewLen  = 60
	validateQueryGROQ  = `*[_type == $type]`
	defaultPruneCutoff = 365 * 24 * time.Hour
)

// env is what every subcommand needs, loaded once before it runs.
type env struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "churchctl",
		Short:         "Inspect site content and contact submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Command output goes to stdout; keep logs quiet unless asked.
			if !cmd.Flags().Changed("verbose") {
				cfg.LogLevel = "warn"
			}
			log, err := app.NewLogger(cfg)
			if err != nil {
				return err
			}
			e.cfg, e.log = cfg, log
			return nil
		},
	}
	root.PersistentFlags().Bool("verbose", false, "log at the configured LOG_LEVEL")

	root.AddCommand(
		newQueryCmd(e),
		newValidateCmd(e),
		newSubmissionsCmd(e),
		newPruneCmd(e),
	)
	return root
}

func newQueryCmd(e *env) *cobra.Command {
	var rawParams []string
	cmd := &cobra.Command{
		Use:   "query <groq>",
		Short: "Run a GROQ query against the CMS and print the result",
		Example: `  churchctl query '*[_type == "ministry"]{name, slug}'
  churchctl query '*[_type == "ministry" && slug.current == $slug][0]' --param slug='"youth"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			client, err := app.NewSanity(e.cfg)
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("SANITY_PROJECT_ID and SANITY_DATASET are required")
			}

			data, err := client.Fetch(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "query parameter as name=<json value> (repeatable)")
	return cmd
}

// parseParams turns name=<json> pairs into query parameters. Values that are
// not valid JSON are passed as strings.
func parseParams(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(raw))
	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", p)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		params[name] = v
	}
	return params, nil
}

func printJSON(w io.Writer, data json.RawMessage) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newValidateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [type...]",
		Short: "Check published CMS documents against the content schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.NewSanity(e.cfg)
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("SANITY_PROJECT_ID and SANITY_DATASET are required")
			}

			types := args
			if len(types) == 0 {
				types = schema.Types()
			}
			problems := 0
			for _, t := range types {
				if _, ok := schema.Lookup(t); !ok {
					return fmt.Errorf("unknown document type %q", t)
				}
				data, err := client.Fetch(cmd.Context(), validateQueryGROQ, map[string]any{"type": t})
				if err != nil {
					return fmt.Errorf("fetching %s documents: %w", t, err)
				}
				var docs []map[string]any
				if err := json.Unmarshal(data, &docs); err != nil {
					return fmt.Errorf("decoding %s documents: %w", t, err)
				}
				problems += reportValidation(cmd.OutOrStdout(), t, docs)
			}
			if problems > 0 {
				return fmt.Errorf("%d validation problems found", problems)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All documents valid")
			return nil
		},
	}
}

// reportValidation prints one line per invalid field and returns the count.
func reportValidation(w io.Writer, docType string, docs []map[string]any) int {
	n := 0
	for _, doc := range docs {
		id, _ := doc["_id"].(string)
		for _, err := range schema.Validate(docType, doc) {
			fmt.Fprintf(w, "%s %s: %v\n", docType, id, err)
			n++
		}
	}
	fmt.Fprintf(w, "%s: %d documents checked\n", docType, len(docs))
	return n
}

func newSubmissionsCmd(e *env) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List recent contact form submissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeAll, err := openSubmissions(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer closeAll()

			subs, err := repo.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(subs)
			}
			renderSubmissions(cmd.OutOrStdout(), subs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultListLimit, "maximum number of submissions to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print submissions as JSON")
	return cmd
}

func renderSubmissions(w io.Writer, subs []contact.Submission) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Received", "Name", "Email", "Subject", "Message"})
	for _, s := range subs {
		t.AppendRow(table.Row{
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Name,
			s.Email,
			s.Subject,
			content.Excerpt(s.Message, messagePreviewLen),
		})
	}
	t.AppendFooter(table.Row{"Total", len(subs)})
	t.Render()
}

func newPruneCmd(e *env) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete contact submissions older than a cutoff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			repo, closeAll, err := openSubmissions(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer closeAll()

			pruner, ok := repo.(contact.Pruner)
			if !ok {
				return errors.New("submission storage does not support pruning")
			}
			cutoff := time.Now().Add(-olderThan)
			n, err := pruner.DeleteBefore(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d submissions received before %s\n", n, cutoff.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", defaultPruneCutoff, "delete submissions older than this")
	return cmd
}

// openSubmissions opens the same submission storage the server writes to.
func openSubmissions(ctx context.Context, e *env) (contact.Repository, func(), error) {
	s, closeStore, err := app.OpenStore(ctx, e.cfg, e.log)
	if err != nil {
		return nil, nil, err
	}
	repo, closeRepo, err := app.OpenSubmissions(ctx, e.cfg, s, e.log)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return repo, func() {
		closeRepo()
		closeStore()
	}, nil
}
