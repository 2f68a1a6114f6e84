// Package semtag infers the logical structure of a document from its
// geometric content tree.
//
// Basic usage:
//
//	result, err := semtag.New().Check(tree)
//	if err != nil {
//	    // handle error
//	}
//	for _, root := range result.TableRoots {
//	    fmt.Println("table at node", root)
//	}
//
// A check run re-types the nodes of the tree in place. Text leaves are
// merged into spans and paragraphs, paragraphs are promoted to headings,
// captions, and lists where their context supports it, and tables found
// among the text are projected back onto the tree. Every typed node carries
// a score in [0,1] saying how sure the run is about its type.
//
// With options:
//
//	result, err := semtag.New().
//	    WithLogger(logger).
//	    WithTableConfig(tablesConfig).
//	    CheckPDF("report.pdf")
//
// The lower-level packages merge, semantic, and tables can be used on their
// own.
package semtag

import "errors"

// ErrEmptyTree is returned when a check is run on a tree without content
var ErrEmptyTree = errors.New("empty tree")

// New returns a Checker with default configuration.
func New() *Checker {
	return &Checker{options: defaultOptions()}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := semtag.Must(semtag.New().Check(tree))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
