// Package model provides the document tree that structure inference works
// on.
//
// An input tree comes from a page-content extractor. Its leaves carry the
// geometric primitives:
//
//   - [TextChunk] - a run of text in one font, grouped into [TextLine] values
//   - [ImageChunk] - a placed raster image
//   - [LineArtChunk] - vector line-art
//
// # Tree
//
// [Tree] is an arena of [Node] values addressed by [NodeID]. Children and
// parent links are IDs, so the parent relation is a lookup, not ownership:
//
//	t := model.NewTree(model.Node{Kind: model.KindGroup})
//	p := t.AddNode(t.Root(), model.Node{Kind: model.KindGroup})
//	t.AddNode(p, model.Node{Kind: model.KindSpan, Lines: lines})
//
// Each node has a [Kind] (its variant) and a [SemanticType] (its standard
// structure tag). InitialType holds the hint from the source document and
// is never overwritten; Type and Score are written by the inference passes.
//
// # Semantic nodes
//
// [SemanticNode] is the synthesized form of a node built from its children
// during accumulation. It is kept outside the tree until the pass is done.
//
// # Geometry
//
// [BBox] uses page coordinates with Y growing upward. All box operations
// return new values.
//
// # Wire format
//
// [DecodeTree] and [EncodeTree] read and write the nested JSON form of a
// tree. Decoding rejects boxes with left > right or bottom > top.
package model
