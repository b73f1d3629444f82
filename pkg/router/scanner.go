package router

import (
	"context"
	"log/slog"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/source"
)

// Scanner discovers page files in a source and builds the route table.
type Scanner struct {
	src    source.Source
	conv   Convention
	loader ComponentLoader
	logger *slog.Logger
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithConvention overrides the page file convention.
func WithConvention(conv Convention) ScanOption {
	return func(s *Scanner) {
		s.conv = conv
	}
}

// WithLoader sets the component loader. By default components are read
// from the scanned source with a SourceLoader.
func WithLoader(loader ComponentLoader) ScanOption {
	return func(s *Scanner) {
		s.loader = loader
	}
}

// WithScanLogger sets the scanner logger.
func WithScanLogger(logger *slog.Logger) ScanOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a new page scanner over src.
func NewScanner(src source.Source, opts ...ScanOption) *Scanner {
	s := &Scanner{
		src:  src,
		conv: DefaultConvention(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = NewSourceLoader(src)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Source returns the page source being scanned.
func (s *Scanner) Source() source.Source {
	return s.src
}

// Convention returns the scanner's page file convention.
func (s *Scanner) Convention() Convention {
	return s.conv
}

// PageFiles lists the source and keeps the page candidates.
func (s *Scanner) PageFiles(ctx context.Context) ([]string, error) {
	keys, err := s.src.List(ctx)
	if err != nil {
		return nil, errors.New("E202").WithFile(s.src.String()).Wrap(err)
	}

	var files []string
	for _, key := range keys {
		if s.conv.IsPageFile(key) {
			files = append(files, key)
		}
	}
	return files, nil
}

// Scan reads all page files and returns the route table.
func (s *Scanner) Scan(ctx context.Context) ([]RouteRecord, error) {
	files, err := s.PageFiles(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := BuildTable(ctx, files, s.conv, s.loader)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("pages scanned",
		"source", s.src.String(),
		"files", len(files),
		"routes", len(routes),
	)
	return routes, nil
}
