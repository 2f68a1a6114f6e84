// Package tables finds tables among the text leaves of an accumulated tree
// and projects each recognized table back onto the tree.
//
// # Tracking
//
// A [Tracker] scans the non-whitespace text chunks of the tree in document
// order. Each chunk is wrapped as a [Token] that remembers the leaf it came
// from and is offered to a recognition [Area]. When the area reports that it
// is complete, a valid area is handed to a [Recognizer]; either way the area
// is replaced by a fresh one and the same token is offered again, so no
// token is lost across the boundary.
//
//	tracker := tables.NewTracker(tables.DefaultConfig())
//	found, buckets := tracker.Track(tree)
//
// The default area, [ClusterArea], takes the first baseline as the header
// row, opens a new column wherever the header has a wide enough gutter, and
// accepts body rows that stay close below the previous row and line up with
// the header columns. [ClusterRecognizer] clusters the body baselines into
// rows and assigns each token to the column it overlaps most.
//
// # Projection
//
// A [Projector] maps a [Table] onto the tree. Each cell becomes the nearest
// common ancestor of its leaves, each row the nearest common ancestor of its
// cells, and the table the nearest common ancestor of its header and body
// groups. Common ancestors are found by counting visits on the way up from
// each node rather than by an ancestor index, and the counters are cleared
// after every lookup.
//
//	p := tables.NewProjector(tree)
//	roots := p.ProjectAll(found)
//
// Types only ever get stronger: TD, then TH and TR, then THead and TBody,
// then Table.
package tables
