package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/config"
	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/request"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
	logpkg "github.com/kailas-cloud/homesearch/internal/logger"
	"github.com/kailas-cloud/homesearch/internal/session"
	"github.com/kailas-cloud/homesearch/internal/version"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "homesearch",
		Usage:   "Federated search over household documents, folders, categories and members",
		Version: version.Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file path (overrides --env lookup)"},
			&cli.StringFlag{Name: "env", Value: config.GetEnv(), Usage: "Environment name: picks config/<env>.yaml"},
		},
		Commands: []*cli.Command{
			serveCmd(),
			seedCmd(),
			searchCmd(),
			suggestCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load(c.String("env"))
}

// withEngine loads config, opens the store and runs fn against a wired engine.
// Commands other than serve log nothing unless the level asks for it.
func withEngine(c *cli.Context, userID string, fn func(ctx context.Context, e *engine) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return outputError(err)
	}
	logger, err := logpkg.NewLogger(c.String("env"), cfg.Logging.Level)
	if err != nil {
		return outputError(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := c.Context
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return outputError(err)
	}

	e, err := newEngine(store, cfg, session.Static{User: domain.User{ID: userID}}, nil, logger)
	if err != nil {
		store.Close()
		return outputError(err)
	}
	defer e.Close()

	return fn(ctx, e)
}

// seedCmd creates the seed command.
func seedCmd() *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Load records from a YAML fixture into the store",
		ArgsUsage: "<fixture.yaml>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.New("exactly one fixture path is required"))
			}
			f, err := loadFixture(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return withEngine(c, "", func(ctx context.Context, e *engine) error {
				sum, err := seed(ctx, e.records, f)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, sum)
			})
		},
	}
}

// searchCmd creates the search command.
func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search every record kind",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Value: "local", Usage: "Member id the search runs as"},
			&cli.StringFlag{Name: "kinds", Usage: "Comma-separated kinds: documents,folders,categories,members"},
			&cli.StringFlag{Name: "types", Usage: "Comma-separated document types"},
			&cli.StringFlag{Name: "sort", Value: string(sortby.Relevance), Usage: "Document order"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max results per kind"},
			&cli.BoolFlag{Name: "archived", Usage: "Include archived records"},
			&cli.BoolFlag{Name: "all", Usage: "Match every record (ignores text)"},
		},
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			kinds, err := parseKinds(c.String("kinds"))
			if err != nil {
				return outputError(err)
			}

			return withEngine(c, c.String("user"), func(ctx context.Context, e *engine) error {
				var (
					agg result.Aggregate
					err error
				)
				if c.Bool("all") {
					agg, err = e.search.AdvancedSearch(ctx, request.Criteria{
						Types:           parseList(c.String("types")),
						SortBy:          sortby.Option(c.String("sort")),
						IncludeArchived: c.Bool("archived"),
						MaxResults:      c.Int("limit"),
					})
				} else {
					agg, err = runSearch(ctx, e, text, filter.Params{
						Kinds:           kinds,
						Types:           parseList(c.String("types")),
						IncludeArchived: c.Bool("archived"),
					}, sortby.Option(c.String("sort")), c.Int("limit"))
				}
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, toSearchOutput(agg))
			})
		},
	}
}

func runSearch(
	ctx context.Context, e *engine, text string, p filter.Params, by sortby.Option, limit int,
) (result.Aggregate, error) {
	f, err := filter.New(p)
	if err != nil {
		return result.Aggregate{}, err
	}
	opts, err := request.NewOptions(true, by, limit, false)
	if err != nil {
		return result.Aggregate{}, err
	}
	return e.search.Search(ctx, text, f, opts)
}

// suggestCmd creates the suggest command.
func suggestCmd() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Autocomplete a prefix from history and record names",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Value: "local", Usage: "Member id the lookup runs as"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max suggestions"},
		},
		Action: func(c *cli.Context) error {
			prefix := strings.Join(c.Args().Slice(), " ")
			return withEngine(c, c.String("user"), func(ctx context.Context, e *engine) error {
				items := e.search.QuickSearch(ctx, prefix, c.Int("limit"))
				out := make([]suggestOutput, len(items))
				for i, it := range items {
					out[i] = suggestOutput{Text: it.Text, Source: string(it.Source), Score: it.Score}
				}
				return outputJSON(c.App.Writer, out)
			})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return outputError(err)
			}
			logger, err := logpkg.NewLogger(c.String("env"), cfg.Logging.Level)
			if err != nil {
				return outputError(err)
			}
			defer func() { _ = logger.Sync() }()

			if err := serve(c.Context, cfg, c.String("env"), logger); err != nil {
				logger.Error("Server failed", zap.Error(err))
				return outputError(err)
			}
			return nil
		},
	}
}

type searchOutput struct {
	Query      string         `json:"query"`
	Total      int            `json:"total"`
	Counts     map[string]int `json:"counts"`
	Documents  []recordOutput `json:"documents"`
	Folders    []recordOutput `json:"folders"`
	Categories []recordOutput `json:"categories"`
	Members    []recordOutput `json:"members"`
	DurationMs int64          `json:"duration_ms"`
}

type recordOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type suggestOutput struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

func toSearchOutput(a result.Aggregate) searchOutput {
	out := searchOutput{
		Query: a.Query,
		Total: a.TotalResults,
		Counts: map[string]int{
			"documents":  a.DocumentCount,
			"folders":    a.FolderCount,
			"categories": a.CategoryCount,
			"members":    a.MemberCount,
		},
		Documents:  make([]recordOutput, len(a.Documents)),
		Folders:    make([]recordOutput, len(a.Folders)),
		Categories: make([]recordOutput, len(a.Categories)),
		Members:    make([]recordOutput, len(a.Members)),
		DurationMs: a.DurationMs,
	}
	for i, d := range a.Documents {
		out.Documents[i] = recordOutput{ID: d.ID, Name: d.Name}
	}
	for i, f := range a.Folders {
		out.Folders[i] = recordOutput{ID: f.ID, Name: f.Name}
	}
	for i, c := range a.Categories {
		out.Categories[i] = recordOutput{ID: c.ID, Name: c.Name}
	}
	for i, m := range a.Members {
		out.Members[i] = recordOutput{ID: m.ID, Name: m.DisplayName}
	}
	return out
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the CLI, prefixing search failures with their kind.
func outputError(err error) error {
	if kind := domain.KindOf(err); kind != domain.KindInternal {
		return cli.Exit(fmt.Sprintf("[%s] %s", kind, err.Error()), 1)
	}
	return cli.Exit(err.Error(), 1)
}
