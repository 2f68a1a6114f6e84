package semtag

import (
	"io"
	"log/slog"

	"github.com/tsawler/semtag/extract"
	"github.com/tsawler/semtag/merge"
	"github.com/tsawler/semtag/model"
	"github.com/tsawler/semtag/semantic"
	"github.com/tsawler/semtag/tables"
)

// CheckOptions holds configuration for a check run.
type CheckOptions struct {
	merge    merge.Config
	semantic semantic.Config
	tables   tables.Config
	extract  extract.Config

	// Optional replacements for the default models
	headings semantic.HeadingScorer
	captions semantic.CaptionScorer
	lists    semantic.ListDetector

	skipTables bool
	logger     *slog.Logger
}

// defaultOptions returns the default check options.
func defaultOptions() CheckOptions {
	return CheckOptions{
		merge:    merge.DefaultConfig(),
		semantic: semantic.DefaultConfig(),
		tables:   tables.DefaultConfig(),
		extract:  extract.DefaultConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// clone creates a deep copy of CheckOptions.
func (o CheckOptions) clone() CheckOptions {
	newOpts := o

	// Deep copy the ignored types slice
	if o.semantic.IgnoredTypes != nil {
		newOpts.semantic.IgnoredTypes = append([]model.SemanticType(nil), o.semantic.IgnoredTypes...)
	}

	return newOpts
}
