// Package extract builds content trees from PDF pages.
//
// Positioned glyphs are read with github.com/ledongthuc/pdf, grouped into
// lines by baseline, and merged into runs wherever the chunk merge model of
// package merge is confident two neighbours share a font and a word. The
// resulting tree has one Span leaf per run:
//
//	Document
//	└── page group
//	    ├── block group, hinted P (lines separated by ordinary leading)
//	    │   └── line group, hinted Span
//	    │       └── Span leaves
//	    └── Figure leaves (filled rectangles and rules)
//
// Apart from those initial hints the tree is geometric only; structure
// types are left to the checker.
package extract
