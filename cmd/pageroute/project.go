package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/pageroute/internal/config"
	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/router"
	"github.com/vango-dev/pageroute/pkg/source"
)

// project is a loaded configuration with its scanned routes.
type project struct {
	cfg     *config.Config
	logger  *slog.Logger
	scanner *router.Scanner
	routes  []router.RouteRecord
}

// loadProject reads the configuration and scans the page source.
func loadProject(ctx context.Context, flags *globalFlags, logOut io.Writer) (*project, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	scanner := router.NewScanner(src,
		router.WithConvention(newConvention(cfg.Pages)),
		router.WithScanLogger(logger),
	)
	routes, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &project{
		cfg:     cfg,
		logger:  logger,
		scanner: scanner,
		routes:  routes,
	}, nil
}

// newRouter creates a router over the scanned routes.
func (p *project) newRouter(opts ...router.Option) *router.Router {
	opts = append([]router.Option{router.WithLogger(p.logger)}, opts...)
	return router.NewRouter(p.routes, opts...)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromWorkingDir()
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, errors.New("E122").
			WithDetail(fmt.Sprintf("log.level must be debug, info, warn or error, got %q", cfg.Level))
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New("E122").
			WithDetail(fmt.Sprintf("log.format must be \"text\" or \"json\", got %q", cfg.Format))
	}
}

// newSource opens the configured page source.
func newSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceS3:
		creds, err := config.LoadAWSCredentials()
		if err != nil {
			return nil, err
		}
		client := source.NewS3Client(source.S3ClientOptions{
			Region:          cfg.Source.Region,
			Endpoint:        cfg.Source.Endpoint,
			PathStyle:       cfg.Source.PathStyle,
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
			SessionToken:    creds.SessionToken,
		})
		return source.NewS3(client, cfg.Source.Bucket, cfg.Source.Prefix), nil
	default:
		dir := cfg.PagesPath()
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.New("E202").
				WithFile(dir).
				WithSuggestion("Set paths.pages in " + config.ConfigFileName).
				Wrap(err)
		}
		return source.Dir(dir), nil
	}
}

func newConvention(cfg config.PagesConfig) router.Convention {
	conv := router.DefaultConvention()
	if cfg.Extension != "" {
		conv.Extension = cfg.Extension
	}
	conv.Exclude = cfg.Exclude
	return conv
}

// encode writes v to w as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("E300").
			WithDetail(fmt.Sprintf("--format must be \"json\" or \"yaml\", got %q", format))
	}
}
