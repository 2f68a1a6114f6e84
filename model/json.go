package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidBBox is returned when a decoded bounding box has left > right or
// bottom > top
var ErrInvalidBBox = errors.New("invalid bounding box")

// ErrInvalidImage is returned when embedded image data cannot be decoded
var ErrInvalidImage = errors.New("invalid image data")

// jsonNode is the nested wire form of a tree node
type jsonNode struct {
	Kind        string       `json:"kind"`
	Type        SemanticType `json:"type,omitempty"`
	InitialType SemanticType `json:"initial_type,omitempty"`
	BBox        [4]float64   `json:"bbox"`
	Score       *float64     `json:"score,omitempty"`
	StructureID int          `json:"structure_id,omitempty"`
	Lines       []jsonLine   `json:"lines,omitempty"`
	Image       *jsonImage   `json:"image,omitempty"`
	LineArt     *jsonLineArt `json:"line_art,omitempty"`
	Children    []jsonNode   `json:"children,omitempty"`
}

type jsonLine struct {
	Chunks  []jsonChunk `json:"chunks"`
	NotFull bool        `json:"not_full,omitempty"`
}

type jsonChunk struct {
	Text         string     `json:"text"`
	FontName     string     `json:"font_name"`
	FontSize     float64    `json:"font_size"`
	Color        Color      `json:"color"`
	Baseline     float64    `json:"baseline"`
	ItalicAngle  float64    `json:"italic_angle,omitempty"`
	BBox         [4]float64 `json:"bbox"`
	SpecialStyle bool       `json:"special_style,omitempty"`
}

// jsonImage carries the encoded image (PNG, JPEG, GIF, BMP, TIFF, or WebP)
// as base64 when pixels are available
type jsonImage struct {
	BBox [4]float64 `json:"bbox"`
	Data []byte     `json:"data,omitempty"`
}

type jsonLineArt struct {
	BBox  [4]float64 `json:"bbox"`
	Paths int        `json:"paths,omitempty"`
}

func boxFromJSON(a [4]float64, path string) (BBox, error) {
	b := BBox{Left: a[0], Bottom: a[1], Right: a[2], Top: a[3]}
	if !b.IsValid() {
		return BBox{}, fmt.Errorf("%s: %w: %v", path, ErrInvalidBBox, a)
	}
	return b, nil
}

func boxToJSON(b BBox) [4]float64 {
	return [4]float64{b.Left, b.Bottom, b.Right, b.Top}
}

// DecodeTree reads a nested JSON document tree
func DecodeTree(r io.Reader) (*Tree, error) {
	var root jsonNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}

	n, err := root.toNode("root")
	if err != nil {
		return nil, err
	}
	t := NewTree(n)
	if err := addChildren(t, t.Root(), root.Children, "root"); err != nil {
		return nil, err
	}
	return t, nil
}

func addChildren(t *Tree, parent NodeID, children []jsonNode, path string) error {
	for i := range children {
		childPath := fmt.Sprintf("%s/children[%d]", path, i)
		n, err := children[i].toNode(childPath)
		if err != nil {
			return err
		}
		id := t.AddNode(parent, n)
		if err := addChildren(t, id, children[i].Children, childPath); err != nil {
			return err
		}
	}
	return nil
}

func (j *jsonNode) toNode(path string) (Node, error) {
	kind := KindGroup
	if j.Kind != "" {
		k, ok := ParseKind(j.Kind)
		if !ok {
			return Node{}, fmt.Errorf("%s: unknown node kind %q", path, j.Kind)
		}
		kind = k
	}

	box, err := boxFromJSON(j.BBox, path)
	if err != nil {
		return Node{}, err
	}
	n := Node{
		Kind:        kind,
		BBox:        box,
		Type:        j.Type,
		InitialType: j.InitialType,
		StructureID: j.StructureID,
	}
	if j.Score != nil {
		n.SetScore(*j.Score)
	}

	for li, jl := range j.Lines {
		line := TextLine{NotFull: jl.NotFull}
		for ci, jc := range jl.Chunks {
			cb, err := boxFromJSON(jc.BBox, fmt.Sprintf("%s/lines[%d]/chunks[%d]", path, li, ci))
			if err != nil {
				return Node{}, err
			}
			line.Chunks = append(line.Chunks, TextChunk{
				Text:         jc.Text,
				FontName:     jc.FontName,
				FontSize:     jc.FontSize,
				Color:        jc.Color,
				Baseline:     jc.Baseline,
				ItalicAngle:  jc.ItalicAngle,
				BBox:         cb,
				SpecialStyle: jc.SpecialStyle,
			})
		}
		n.Lines = append(n.Lines, line)
	}

	if j.Image != nil {
		ib, err := boxFromJSON(j.Image.BBox, path+"/image")
		if err != nil {
			return Node{}, err
		}
		n.Image = &ImageChunk{BBox: ib}
		if len(j.Image.Data) > 0 {
			pixels, _, err := image.Decode(bytes.NewReader(j.Image.Data))
			if err != nil {
				return Node{}, fmt.Errorf("%s/image: %w: %v", path, ErrInvalidImage, err)
			}
			n.Image.Pixels = pixels
			n.Image.Data = j.Image.Data
		}
	}
	if j.LineArt != nil {
		lb, err := boxFromJSON(j.LineArt.BBox, path+"/line_art")
		if err != nil {
			return Node{}, err
		}
		n.LineArt = &LineArtChunk{BBox: lb, Paths: j.LineArt.Paths}
	}
	return n, nil
}

// EncodeTree writes the tree in the nested JSON form read by DecodeTree
func EncodeTree(w io.Writer, t *Tree) error {
	root := encodeNode(t, t.Root())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return nil
}

func encodeNode(t *Tree, id NodeID) jsonNode {
	n := t.Node(id)
	j := jsonNode{
		Kind:        n.Kind.String(),
		Type:        n.Type,
		InitialType: n.InitialType,
		BBox:        boxToJSON(n.BBox),
		StructureID: n.StructureID,
	}
	if n.HasScore {
		score := n.Score
		j.Score = &score
	}
	for _, l := range n.Lines {
		jl := jsonLine{NotFull: l.NotFull}
		for _, c := range l.Chunks {
			jl.Chunks = append(jl.Chunks, jsonChunk{
				Text:         c.Text,
				FontName:     c.FontName,
				FontSize:     c.FontSize,
				Color:        c.Color,
				Baseline:     c.Baseline,
				ItalicAngle:  c.ItalicAngle,
				BBox:         boxToJSON(c.BBox),
				SpecialStyle: c.SpecialStyle,
			})
		}
		j.Lines = append(j.Lines, jl)
	}
	if n.Image != nil {
		j.Image = &jsonImage{BBox: boxToJSON(n.Image.BBox), Data: n.Image.Data}
	}
	if n.LineArt != nil {
		j.LineArt = &jsonLineArt{BBox: boxToJSON(n.LineArt.BBox), Paths: n.LineArt.Paths}
	}
	for _, c := range n.Children {
		j.Children = append(j.Children, encodeNode(t, c))
	}
	return j
}
