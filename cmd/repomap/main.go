// Command repomap is a thin demonstration front end over the
// repository-intelligence engine, grounded on lci's cmd/lci/main.go
// urfave/cli wiring style (global root/config flags, one subcommand per
// operation). The engine package is the real external interface; this
// binary is the "external collaborator" spec.md explicitly keeps outside
// the core.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/repomap-engine/internal/config"
	"github.com/standardbeagle/repomap-engine/internal/engine"
	"github.com/standardbeagle/repomap-engine/internal/format"
	"github.com/standardbeagle/repomap-engine/internal/logging"
	"github.com/standardbeagle/repomap-engine/internal/version"
	"github.com/standardbeagle/repomap-engine/pkg/pathutil"
)

func resolveRoot(c *cli.Context) (string, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}
	return absRoot, nil
}

// relativeToRoot normalizes file arguments against the project root: a user
// may pass an absolute path (shell completion, editor integration) or one
// already relative to the root, but the engine's graph and identifier index
// key everything on root-relative paths.
func relativeToRoot(absRoot string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = pathutil.ToRelative(pathutil.ToAbsolute(f, absRoot), absRoot)
	}
	return out
}

func loadEngine(c *cli.Context) (*engine.Engine, error) {
	absRoot, err := resolveRoot(c)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadKDL(absRoot)
	if err != nil {
		return nil, err
	}
	cfg.Scan.IgnorePatterns = append(cfg.Scan.IgnorePatterns, config.DetectBuildArtifactIgnores(absRoot)...)
	if sd := c.String("session-dir"); sd != "" {
		cfg.SessionDir = sd
	} else {
		cfg.SessionDir = filepath.Join(absRoot, ".repomap", "sessions")
	}

	var opts []engine.Option
	if c.Bool("verbose") {
		opts = append(opts, engine.WithLogger(logging.NewStandard(os.Stderr, logging.LevelDebug)))
	}
	return engine.New(cfg, opts...)
}

func analyzeAndLoad(c *cli.Context) (*engine.Engine, error) {
	e, err := loadEngine(c)
	if err != nil {
		return nil, err
	}
	if _, err := e.Analyze(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	app := &cli.App{
		Name:    "repomap",
		Usage:   "repository intelligence: symbol search, dependency graphs, token-budgeted context maps",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "project root directory", Value: "."},
			&cli.StringFlag{Name: "session-dir", Usage: "override session storage directory"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "scan the project and report file/identifier statistics",
				Action: func(c *cli.Context) error {
					e, err := loadEngine(c)
					if err != nil {
						return err
					}
					info, err := e.Analyze(context.Background())
					if err != nil {
						return err
					}
					return printJSON(info)
				},
			},
			{
				Name:      "search",
				Usage:     "search identifiers by fuzzy, semantic, or hybrid strategy",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "strategy", Value: "hybrid", Usage: "fuzzy|semantic|hybrid"},
					&cli.Float64Flag{Name: "threshold", Value: 0},
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					query := c.Args().First()
					if query == "" {
						return fmt.Errorf("search requires a query argument")
					}
					e, err := analyzeAndLoad(c)
					if err != nil {
						return err
					}
					matches := e.Search(query, engine.SearchStrategy(c.String("strategy")), c.Float64("threshold"), c.Int("limit"))
					return printJSON(matches)
				},
			},
			{
				Name:      "rank",
				Usage:     "rank identifiers by relevance to an intent and current files",
				ArgsUsage: "<intent>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "current-file", Usage: "repeatable: a file currently open/edited"},
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					intent := strings.Join(c.Args().Slice(), " ")
					absRoot, err := resolveRoot(c)
					if err != nil {
						return err
					}
					e, err := analyzeAndLoad(c)
					if err != nil {
						return err
					}
					currentFiles := relativeToRoot(absRoot, c.StringSlice("current-file"))
					scored := e.RankForIntent(intent, currentFiles, c.Int("limit"))
					return printJSON(scored)
				},
			},
			{
				Name:      "explore",
				Usage:     "discover entrypoints for an intent and build exploration trees",
				ArgsUsage: "<intent>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "session id; derived from the intent if omitted"},
				},
				Action: func(c *cli.Context) error {
					intent := strings.Join(c.Args().Slice(), " ")
					e, err := analyzeAndLoad(c)
					if err != nil {
						return err
					}
					sess, err := e.Explore(intent, c.String("session"), time.Now())
					if err != nil {
						return err
					}
					return printJSON(sess)
				},
			},
			{
				Name:      "focus",
				Usage:     "set a session's active tree",
				ArgsUsage: "<session-id> <tree-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("focus requires <session-id> <tree-id>")
					}
					e, err := loadEngine(c)
					if err != nil {
						return err
					}
					return e.Focus(c.Args().Get(0), c.Args().Get(1), time.Now())
				},
			},
			{
				Name:      "expand",
				Usage:     "expand a matching area of a session's tree",
				ArgsUsage: "<session-id> <area> [tree-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("expand requires <session-id> <area> [tree-id]")
					}
					e, err := loadEngine(c)
					if err != nil {
						return err
					}
					if _, err := e.Analyze(context.Background()); err != nil {
						return err
					}
					return e.Expand(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), time.Now())
				},
			},
			{
				Name:      "prune",
				Usage:     "prune a matching area of a session's tree",
				ArgsUsage: "<session-id> <area> [tree-id]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("prune requires <session-id> <area> [tree-id]")
					}
					e, err := loadEngine(c)
					if err != nil {
						return err
					}
					if _, err := e.Analyze(context.Background()); err != nil {
						return err
					}
					return e.Prune(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), time.Now())
				},
			},
			{
				Name:      "map",
				Usage:     "render a session's tree as a token-budgeted context map",
				ArgsUsage: "<session-id> [tree-id]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "budget", Value: 4096},
					&cli.BoolFlag{Name: "json", Usage: "render as JSON instead of tree-glyph text"},
					&cli.BoolFlag{Name: "include-code", Usage: "ask the renderer to include code context lines"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("map requires <session-id> [tree-id]")
					}
					e, err := loadEngine(c)
					if err != nil {
						return err
					}
					tree, err := e.Map(c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					mode := format.ModeText
					if c.Bool("json") {
						mode = format.ModeJSON
					}
					fmt.Println(e.Render(tree, c.Int("budget"), mode, c.Bool("include-code")))
					return nil
				},
			},
			{
				Name:      "impact",
				Usage:     "report files affected by a change",
				ArgsUsage: "<file> [file...]",
				Flags:     []cli.Flag{&cli.IntFlag{Name: "depth", Value: 3}},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("impact requires at least one changed file")
					}
					absRoot, err := resolveRoot(c)
					if err != nil {
						return err
					}
					e, err := analyzeAndLoad(c)
					if err != nil {
						return err
					}
					changed := relativeToRoot(absRoot, c.Args().Slice())
					return printJSON(e.Impact(changed, c.Int("depth")))
				},
			},
			{
				Name:  "centrality",
				Usage: "print per-file centrality scores",
				Action: func(c *cli.Context) error {
					e, err := analyzeAndLoad(c)
					if err != nil {
						return err
					}
					return printJSON(e.Centrality())
				},
			},
			{
				Name:  "cycles",
				Usage: "report dependency cycles",
				Action: func(c *cli.Context) error {
					e, err := analyzeAndLoad(c)
					if err != nil {
						return err
					}
					return printJSON(e.FindCycles())
				},
			},
			{
				Name:  "sessions",
				Usage: "list or delete persisted exploration sessions",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list session ids",
						Action: func(c *cli.Context) error {
							e, err := loadEngine(c)
							if err != nil {
								return err
							}
							ids, err := e.SessionList()
							if err != nil {
								return err
							}
							return printJSON(ids)
						},
					},
					{
						Name:      "delete",
						Usage:     "delete a session by id",
						ArgsUsage: "<session-id>",
						Action: func(c *cli.Context) error {
							if c.NArg() < 1 {
								return fmt.Errorf("delete requires <session-id>")
							}
							e, err := loadEngine(c)
							if err != nil {
								return err
							}
							return e.SessionDelete(c.Args().First())
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
