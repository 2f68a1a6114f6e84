package semantic

import (
	"math"
	"strings"

	"github.com/tsawler/semtag/lists"
	"github.com/tsawler/semtag/model"
)

// listCandidates are the children of one node that may form a list,
// split by what their first leaf is
type listCandidates struct {
	text       []model.NodeID
	firstLines []string
	textLefts  []float64

	images     []model.NodeID
	imageChunk []*model.ImageChunk

	arts     []model.NodeID
	artChunk []*model.LineArtChunk
}

// firstLeaf follows first children down to a leaf
func (p *pass) firstLeaf(id model.NodeID) model.NodeID {
	for !p.tree.IsLeaf(id) {
		id = p.tree.Children(id)[0]
	}
	return id
}

func (p *pass) collectListCandidates(id model.NodeID) listCandidates {
	var lc listCandidates
	for _, c := range p.tree.Children(id) {
		leaf := p.tree.Node(p.firstLeaf(c))
		switch leaf.Kind {
		case model.KindImage:
			img := leaf.Image
			if img == nil {
				img = &model.ImageChunk{BBox: leaf.BBox}
			}
			lc.images = append(lc.images, c)
			lc.imageChunk = append(lc.imageChunk, img)
		case model.KindFigure:
			art := leaf.LineArt
			if art == nil {
				art = &model.LineArtChunk{BBox: leaf.BBox}
			}
			lc.arts = append(lc.arts, c)
			lc.artChunk = append(lc.artChunk, art)
		default:
			acc := p.mapper.Get(c)
			if !acc.HasContent() {
				continue
			}
			line := acc.FirstLine()
			text := strings.TrimSpace(line.Text())
			if text == "" {
				continue
			}
			lc.text = append(lc.text, c)
			lc.firstLines = append(lc.firstLines, text)
			lc.textLefts = append(lc.textLefts, line.BBox().Left)
		}
	}
	return lc
}

// detectLists finds list runs among the children of id and wraps each run
// in a new list node
func (p *pass) detectLists(id model.NodeID) {
	lc := p.collectListCandidates(id)

	if len(lc.text) > 1 {
		intervals := p.lists.TextIntervals(lc.firstLines)
		p.wrapLists(id, lc.text, p.alignIntervals(intervals, lc.textLefts))
	} else if len(lc.text) == 1 && p.tree.Node(id).InitialType == model.TypeList {
		first := []rune(lc.firstLines[0])[0]
		if p.lists.IsListLabel(first) {
			p.wrapLists(id, lc.text, []lists.Interval{{Start: 0, End: 0}})
		}
	}

	if len(lc.images) > 1 {
		lefts := make([]float64, len(lc.imageChunk))
		for i, img := range lc.imageChunk {
			lefts[i] = img.BBox.Left
		}
		intervals := p.lists.ImageIntervals(lc.imageChunk)
		p.wrapLists(id, lc.images, p.alignIntervals(intervals, lefts))
	}

	if len(lc.arts) > 1 {
		lefts := make([]float64, len(lc.artChunk))
		for i, art := range lc.artChunk {
			lefts[i] = art.BBox.Left
		}
		intervals := p.lists.LineArtIntervals(lc.artChunk)
		p.wrapLists(id, lc.arts, p.alignIntervals(intervals, lefts))
	}
}

// alignIntervals splits intervals where an item's left edge strays from the
// first item of its run, and drops pieces shorter than two items
func (p *pass) alignIntervals(intervals []lists.Interval, lefts []float64) []lists.Interval {
	var out []lists.Interval
	for _, iv := range intervals {
		start := iv.Start
		for i := iv.Start + 1; i <= iv.End+1; i++ {
			if i <= iv.End && math.Abs(lefts[i]-lefts[start]) <= p.config.ListLabelAlignment {
				continue
			}
			if i-start >= 2 {
				out = append(out, lists.Interval{Start: start, End: i - 1})
			}
			start = i
		}
	}
	return out
}

// wrapLists wraps each interval of members, which are children of parent
// in document order, in a list node. Members are re-typed as list items.
func (p *pass) wrapLists(parent model.NodeID, members []model.NodeID, intervals []lists.Interval) {
	for _, iv := range intervals {
		run := members[iv.Start : iv.End+1]
		siblings := p.tree.Children(parent)
		from, to := indexOf(siblings, run[0]), indexOf(siblings, run[len(run)-1])
		if from < 0 || to < 0 {
			// already moved under an earlier list
			continue
		}

		var box model.BBox
		for i, c := range siblings[from : to+1] {
			b := p.tree.Node(c).BBox
			if acc := p.mapper.Get(c); acc != nil {
				b = acc.BBox
			}
			if i == 0 {
				box = b
			} else {
				box = box.Union(b)
			}
		}

		score := 1.0
		for _, m := range run {
			score = math.Min(score, p.mapper.Score(m))
			item := &model.SemanticNode{Kind: model.KindListItem, BBox: p.tree.Node(m).BBox}
			if acc := p.mapper.Get(m); acc != nil {
				item = acc.WithKind(model.KindListItem)
			}
			p.mapper.Update(m, item, p.mapper.Score(m), model.TypeListItem)
		}

		wrapper := p.tree.Wrap(parent, from, to, model.Node{Kind: model.KindList, BBox: box})
		p.mapper.Update(wrapper, &model.SemanticNode{Kind: model.KindList, BBox: box}, score, model.TypeList)
		p.stats.Lists++
		p.stats.ListItems += len(run)
		p.logger.Debug("list recognized", "parent", int(parent), "list", int(wrapper), "items", len(run))
	}
}

func indexOf(ids []model.NodeID, id model.NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}
