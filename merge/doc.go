// Package merge scores how likely two adjacent text runs belong to the same
// span, line, paragraph, or column.
//
// Every geometric dimension goes through one piecewise-linear kernel,
// [Uniform], with its own certain interval and falloff length. Composite
// scores are products of their dimensions, so one disqualifying dimension
// gives 0:
//
//	chunk     = font name × font size × color × baseline × spacing
//	line      = spacing × vertical near-nesting
//	paragraph = leading × indentation
//
// Arguments are ordered: x precedes y in reading order. All scores are in
// [0,1] and none of them fail.
package merge
