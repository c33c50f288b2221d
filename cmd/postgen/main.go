package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"marketbot/internal/config"
	"marketbot/internal/humor"
	"marketbot/internal/model"
	"marketbot/internal/post"
	"marketbot/internal/repository"
	"marketbot/pkg/market"
	"marketbot/pkg/news"

	"github.com/spf13/cobra"
)

var (
	dateFlag string
	outDir   string
	toStdout bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "postgen",
	Short:         "Generate the daily MarketBot post",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&dateFlag, "date", "", "post date as YYYY-MM-DD (default yesterday)")
	rootCmd.Flags().StringVar(&outDir, "out-dir", "", "directory for generated posts (default $POST_OUTPUT_DIR or content/redirect)")
	rootCmd.Flags().BoolVar(&toStdout, "stdout", false, "print the post instead of writing it")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command and returns the process exit code. Logs always go
// to stderr so --stdout output stays a clean post.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	slog.SetDefault(newLogger(stderr, slog.LevelInfo))

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("post generation failed", "error", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), slog.LevelDebug))
	}

	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	date, err := postDate(dateFlag, time.Now())
	if err != nil {
		return err
	}

	var source market.Source
	switch cfg.MarketProvider {
	case config.ProviderFinnhub:
		source = market.NewFinnHubClient(cfg.FinnhubAPIKey)
	default:
		source = market.NewYahooClient()
	}
	resolver := market.NewResolver(source)

	composer := post.NewComposer(
		resolver,
		news.NewGuardianClient(cfg.GuardianAPIKey),
		humor.NewHumorizer(resolver),
		nil,
	)

	slog.Info("generating post", "date", model.FormatDate(date), "market_source", source.Name())

	doc, err := composer.Generate(cmd.Context(), date)
	if err != nil {
		return err
	}

	if toStdout {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}

	dir := outDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	path, err := repository.NewPostRepository(dir).Save(date, doc)
	if err != nil {
		return err
	}

	slog.Info("post written", "path", path)
	return nil
}

// postDate parses the --date flag, falling back to the day before now.
func postDate(flag string, now time.Time) (time.Time, error) {
	if flag == "" {
		y, m, d := now.AddDate(0, 0, -1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse(model.DateLayout, flag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", flag, err)
	}
	return date, nil
}
