// Package main provides the image-haven CLI.
// Uses Cobra for command parsing: Cobra is the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/cli search --query mountains
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/client"
	"github.com/fleveque/image-haven/internal/config"
	"github.com/fleveque/image-haven/internal/server"
	"github.com/fleveque/image-haven/internal/view"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// image-haven search --query mountains --page 2
// image-haven recommend --seed "mountains, ocean"
// image-haven browse --api http://localhost:5000
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "image-haven",
		Short:        "Image Haven wallpaper tools",
		SilenceUsage: true,
	}

	root.AddCommand(searchCmd(), recommendCmd(), browseCmd())
	return root
}

func searchCmd() *cobra.Command {
	var query string
	var page int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Query every provider in-process and print the merged JSON",
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, deps *server.Deps) error {
				wallpapers, err := deps.WallpaperService.Search(ctx, query, page)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), wallpapers)
			})
		},
	}

	cmd.Flags().StringVar(&query, "query", "random", "Search term")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func recommendCmd() *cobra.Command {
	var seed string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the text-generation backends for a theme and print the raw JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, deps *server.Deps) error {
				raw, err := deps.RecommendService.Recommend(ctx, seed)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "random", "Search terms to base the theme on")
	return cmd
}

func browseCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactive wallpaper browser against a running backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctrl := client.NewController(client.NewAPI(apiURL, nil), logger)
			return browse(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:5000", "Backend base URL")
	return cmd
}

// withDeps loads config, builds the in-process services and runs fn with a
// context cancelled on Ctrl+C.
func withDeps(parent context.Context, fn func(ctx context.Context, deps *server.Deps) error) error {
	_ = gotenv.Load()

	cfg, err := config.Load(os.Getenv("IMAGE_HAVEN_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Always use development mode for CLI
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := server.NewDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fn(ctx, deps)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const browseHelp = `commands:
  search <term>   new search (page 1)
  more            load the next page
  suggest         AI theme suggestion from your searches
  open <n>        open card n in the modal
  fav             toggle favorite on the open card
  close           close the modal
  favorites       list favorite URLs
  quit            exit
`

// browse is a line-oriented loop over the controller. Each command runs to
// completion before the screen is redrawn.
func browse(ctx context.Context, ctrl *client.Controller, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Errors are already logged by the controller; the screen shows the state.
	_ = ctrl.Load(ctx)
	if err := view.Render(out, ctrl.State()); err != nil {
		return err
	}
	fmt.Fprint(out, browseHelp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprint(out, browseHelp)
			continue
		case "search":
			if arg != "" {
				ctrl.SetQuery(arg)
			}
			_ = ctrl.Submit(ctx)
		case "more":
			_ = ctrl.LoadMore(ctx)
		case "suggest":
			_, _ = ctrl.Suggest(ctx)
		case "open":
			n, err := strconv.Atoi(arg)
			w, ok := view.Card(ctrl.State(), n)
			if err != nil || !ok {
				fmt.Fprintf(out, "no card %q\n", arg)
				continue
			}
			ctrl.Open(w)
		case "fav":
			active := ctrl.State().Active
			if active == nil {
				fmt.Fprintln(out, "open a card first")
				continue
			}
			ctrl.ToggleFavorite(*active)
		case "close":
			ctrl.Close()
		case "favorites":
			for _, url := range ctrl.State().Favorites {
				fmt.Fprintln(out, url)
			}
			continue
		default:
			fmt.Fprintf(out, "unknown command %q (try help)\n", cmd)
			continue
		}

		if err := view.Render(out, ctrl.State()); err != nil {
			return err
		}
	}
}
