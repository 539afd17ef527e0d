package main

import (
	"bytes"
	"case-map-service/internal/adapters/cases"
	"case-map-service/internal/adapters/storage"
	"case-map-service/internal/adapters/upstream"
	"case-map-service/internal/config"
	"case-map-service/internal/domain"
	"case-map-service/internal/platform/graceful"
	"case-map-service/internal/platform/obs"
	"case-map-service/internal/ports"
	"case-map-service/internal/services"
	"case-map-service/internal/visual"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	input         string
	url           string
	out           string
	title         string
	policy        string
	atlasURL      string
	publishBucket string
	publishPrefix string
	logLevel      string
}

var dotEnvErr error

func newRootCmd() *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the COVID-19 case map to a standalone HTML page",
		Long: `Read case records from a JSON file or URL, transform them into map markers
and write the interactive map page. With --publish-bucket the page is also
uploaded to the configured MinIO/S3 endpoint.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "Case records JSON file")
	f.StringVarP(&opts.url, "url", "u", "", "Case records URL (default "+config.DefaultCasesURL+")")
	f.StringVarP(&opts.out, "out", "o", "-", "Output HTML file, - for stdout")
	f.StringVarP(&opts.title, "title", "t", config.DefaultTitle, "Map title")
	f.StringVar(&opts.policy, "policy", string(domain.PolicySkip), "Missing field policy: skip or abort")
	f.StringVar(&opts.atlasURL, "atlas-url", config.DefaultAtlasURL, "World atlas TopoJSON URL loaded by the page")
	f.StringVar(&opts.publishBucket, "publish-bucket", "", "Upload the page to this bucket")
	f.StringVar(&opts.publishPrefix, "publish-prefix", "maps", "Object key prefix for published pages")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level")
	cmd.MarkFlagsMutuallyExclusive("input", "url")

	return cmd
}

func main() {
	// Logged once the logger exists in runRender.
	dotEnvErr = config.LoadDotEnv()

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRender(ctx context.Context, cmd *cobra.Command, opts renderOptions) error {
	logger, err := obs.NewLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if dotEnvErr != nil {
		logger.Debug("no .env file loaded (using environment variables)", zap.Error(dotEnvErr))
	}

	policy, err := domain.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}

	source, err := caseSource(opts)
	if err != nil {
		return err
	}

	v, err := services.BuildVisualization(ctx, services.BuildVisualizationRequest{
		Title:    opts.title,
		Policy:   policy,
		AtlasURL: opts.atlasURL,
	}, source)
	if err != nil {
		return err
	}

	var page bytes.Buffer
	if err := visual.RenderPage(&page, v.Spec); err != nil {
		return err
	}

	if err := writeOutput(cmd, opts.out, page.Bytes()); err != nil {
		return err
	}

	if len(v.Rejected) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d of %d records with missing fields\n", len(v.Rejected), v.Total)
	}

	if opts.publishBucket == "" {
		return nil
	}
	location, err := publish(ctx, opts, page.Bytes())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "published %s\n", location)
	return nil
}

func caseSource(opts renderOptions) (ports.CaseSource, error) {
	if opts.input != "" {
		return cases.NewFileSource(opts.input), nil
	}

	url := opts.url
	if url == "" {
		url = config.Get("CASES_URL", config.DefaultCasesURL)
	}
	src, err := cases.NewHTTPSource(url, upstream.New("cases"))
	if err != nil {
		return nil, err
	}
	return src, nil
}

func writeOutput(cmd *cobra.Command, out string, page []byte) error {
	if out == "-" || out == "" {
		_, err := cmd.OutOrStdout().Write(page)
		return err
	}
	if err := os.WriteFile(out, page, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", out, err)
	}
	return nil
}

func publish(ctx context.Context, opts renderOptions, page []byte) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Minio.Endpoint == "" {
		return "", errors.New("publish: MINIO_ENDPOINT is required")
	}

	store, err := storage.NewMinioSnapshotStore(storage.MinioOptions{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		UseSSL:    cfg.Minio.UseSSL,
		Bucket:    opts.publishBucket,
		Prefix:    opts.publishPrefix,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := store.EnsureBucket(ctx); err != nil {
		return "", err
	}

	name := "case-map-" + time.Now().UTC().Format("20060102T150405Z") + ".html"
	location, err := store.Put(ctx, name, page)
	if err != nil {
		return "", err
	}
	zap.L().Info("page published", zap.String("location", location))
	return location, nil
}
