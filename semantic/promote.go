package semantic

import "github.com/tsawler/semtag/model"

// promoteHeadings slides a window (previous, current, next, next-next) over
// the children with visible text and promotes each current node whose
// heading probability reaches the threshold.
func (p *pass) promoteHeadings(children []model.NodeID) {
	var candidates []model.NodeID
	for _, c := range children {
		if p.mapper.Get(c).HasContent() {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) <= 1 {
		return
	}

	at := func(i int) model.NodeID {
		if i < 0 || i >= len(candidates) {
			return model.NoNode
		}
		return candidates[i]
	}
	for i, c := range candidates {
		p.promoteHeading(c, at(i-1), at(i+1), at(i+2))
	}
}

func (p *pass) promoteHeading(id, prev, next, nextNext model.NodeID) {
	if p.mapper.Type(id) == model.TypeList || p.tree.Node(id).Type == model.TypeList {
		return
	}
	acc := p.mapper.Get(id)
	if acc.Kind != model.KindSpan && acc.Kind != model.KindParagraph {
		return
	}

	hint := p.tree.Node(id).InitialType
	prob := p.headings.HeadingProbability(acc, p.mapper.Get(prev), p.mapper.Get(next), p.mapper.Get(nextNext), hint)
	if prob < p.config.PromotionThreshold {
		return
	}

	kind, typ := model.KindHeading, model.TypeHeading
	if hint == model.TypeNumberHeading {
		kind, typ = model.KindNumberHeading, model.TypeNumberHeading
	}
	p.mapper.Update(id, acc.WithKind(kind), prob*p.mapper.Score(id), typ)
	p.stats.Headings++
	p.logger.Debug("heading promoted", "node", int(id), "type", typ.String(), "probability", prob)
}

// promoteCaptions tests every adjacent pair of text and visual children in
// both directions
func (p *pass) promoteCaptions(children []model.NodeID) {
	var candidates []model.NodeID
	for _, c := range children {
		acc := p.mapper.Get(c)
		if acc.HasContent() || (acc != nil && acc.Kind.IsVisual()) {
			candidates = append(candidates, c)
		}
	}

	for i := 0; i+1 < len(candidates); i++ {
		p.promoteCaption(candidates[i], candidates[i+1])
		p.promoteCaption(candidates[i+1], candidates[i])
	}
}

func (p *pass) promoteCaption(id, neighbor model.NodeID) {
	typ := p.mapper.Type(id)
	if typ.IsHeading() || typ == model.TypeCaption {
		return
	}
	acc := p.mapper.Get(id)
	if !acc.IsText() {
		return
	}

	prob := p.captions.CaptionProbability(acc, p.mapper.Get(neighbor))
	if prob < p.config.PromotionThreshold {
		return
	}
	p.mapper.Update(id, acc.WithKind(model.KindCaption), prob*p.mapper.Score(id), model.TypeCaption)
	p.stats.Captions++
	p.logger.Debug("caption promoted", "node", int(id), "neighbor", int(neighbor), "probability", prob)
}
