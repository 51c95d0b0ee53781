package topology

import (
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
)

// ListEvent is one child of a part-list in document order: a score-part
// or a part-group start or stop.
type ListEvent struct {
	Part   *model.PartName
	Number string
	Type   string // "start" or "stop" for a part-group
	Group  model.GroupData
}

func (e ListEvent) isStop() bool { return e.Part == nil && e.Type == "stop" }

// Repair inserts the stops of groups that are started twice or never
// closed and drops stops without a matching start.
func Repair(events []ListEvent) []ListEvent {
	var xs []ListEvent
	var open []string
	for _, x := range events {
		if x.Part != nil {
			xs = append(xs, x)
			continue
		}
		if x.Type == "start" {
			if slices.Contains(open, x.Number) {
				xs = append(xs, ListEvent{Number: x.Number, Type: "stop"}, x)
			} else {
				xs = append(xs, x)
				open = append(open, x.Number)
			}
			continue
		}
		if i := slices.Index(open, x.Number); i >= 0 {
			open = slices.Delete(open, i, i+1)
			xs = append(xs, x)
		}
	}
	for i := len(open) - 1; i >= 0; i-- {
		xs = append(xs, ListEvent{Number: open[i], Type: "stop"})
	}
	return xs
}

type listParser struct {
	xs    []ListEvent
	data  map[string]model.GroupData
	stack []string
}

// Parse turns a repaired event list into a tree of parts and groups.
func Parse(events []ListEvent) []model.PartListNode {
	p := &listParser{xs: events, data: map[string]model.GroupData{}}
	var nodes []model.PartListNode
	for len(p.xs) > 0 {
		level, _ := p.level()
		nodes = append(nodes, level...)
	}
	return nodes
}

// level reads the elements of one level up to its closing stop, which
// yields the group data of that level.
func (p *listParser) level() ([]model.PartListNode, *model.GroupData) {
	var nodes []model.PartListNode
	for len(p.xs) > 0 {
		x := p.xs[0]
		p.xs = p.xs[1:]
		if x.Part != nil {
			nodes = append(nodes, model.PartListNode{Part: x.Part})
			continue
		}
		if x.Type == "start" {
			p.data[x.Number] = x.Group
			p.stack = append(p.stack, x.Number)
			children, g := p.level()
			nodes = append(nodes, model.PartListNode{Group: g, Children: children})
			continue
		}
		var top string
		if n := len(p.stack); n > 0 {
			top, p.stack = p.stack[n-1], p.stack[:n-1]
		}
		// two stops in a row in the wrong order: swap the group data
		if len(p.xs) > 0 && p.xs[0].isStop() && x.Number != top {
			p.data[top], p.data[x.Number] = p.data[x.Number], p.data[top]
		}
		g := p.data[x.Number]
		return nodes, &g
	}
	return nodes, &model.GroupData{}
}

// BracePart renders the staves of one part: voices sharing a staff in
// parentheses, staves separated by barlines, braced when there are more
// than one.
func BracePart(part [][]int) []string {
	if len(part) == 0 {
		return nil
	}
	var brace []string
	for _, ivs := range part {
		if len(ivs) == 1 {
			brace = append(brace, strconv.Itoa(ivs[0]))
		} else {
			brace = append(brace, "(")
			for _, iv := range ivs {
				brace = append(brace, strconv.Itoa(iv))
			}
			brace = append(brace, ")")
		}
		brace = append(brace, "|")
	}
	brace = brace[:len(brace)-1]
	if len(part) > 1 {
		brace = append(append([]string{"{"}, brace...), "}")
	}
	return brace
}

type scoreMap struct {
	pmap   [][][]int
	names  []model.PartName
	staves []string
}

func (s *scoreMap) nextPart() ([][]int, error) {
	if len(s.pmap) == 0 {
		return nil, errors.New("more parts in part-list than in score")
	}
	y := s.pmap[0]
	s.pmap = s.pmap[1:]
	return y, nil
}

func joinNames(a, b model.PartName) model.PartName {
	return model.PartName{Name: a.Name + ":" + b.Name, Abbrev: a.Abbrev + ":" + b.Abbrev}
}

func (s *scoreMap) elem(x model.PartListNode, gnm model.PartName, bar bool) error {
	if x.Part != nil {
		y, err := s.nextPart()
		if err != nil {
			return err
		}
		name := *x.Part
		if gnm.Name != "" {
			name = joinNames(gnm, name)
		}
		s.names = append(s.names, name)
		s.staves = append(s.staves, BracePart(y)...)
		return nil
	}
	if x.Group == nil {
		return errors.New("part-list node without part or group")
	}
	// a group around a single part only adds a name to it
	if len(x.Children) == 1 && x.Children[0].Part != nil {
		y, err := s.nextPart()
		if err != nil {
			return err
		}
		s.names = append(s.names, joinNames(*x.Children[0].Part, model.PartName{Name: x.Group.Name, Abbrev: x.Group.Abbrev}))
		s.staves = append(s.staves, BracePart(y)...)
		return nil
	}
	return s.group(x, bar)
}

func (s *scoreMap) group(x model.PartListNode, pbar bool) error {
	g := x.Group
	bar := g.Barline == "yes" || pbar
	open, end := "[", "]"
	if g.Symbol == "brace" {
		open, end = "{", "}"
	}
	s.staves = append(s.staves, open)
	gnm := model.PartName{Name: g.Name, Abbrev: g.Abbrev}
	for _, z := range x.Children {
		if err := s.elem(z, gnm, bar); err != nil {
			return err
		}
		if bar {
			s.staves = append(s.staves, "|")
		}
	}
	if bar {
		s.staves = s.staves[:len(s.staves)-1]
	}
	s.staves = append(s.staves, end)
	return nil
}

// ScoreMap walks the part-list tree along the staves of every part and
// returns the name of every part and the elements of the %%score line.
// Errors are reported per top level element and skip that element.
func ScoreMap(partlist []model.PartListNode, stfmap [][][]int, log *diag.Log) ([]model.PartName, []string) {
	s := &scoreMap{pmap: stfmap}
	for _, x := range partlist {
		if err := s.elem(x, model.PartName{}, false); err != nil {
			log.Warnf("lousy musicxml: error in part-list: %v", err)
		}
	}
	return s.names, s.staves
}
