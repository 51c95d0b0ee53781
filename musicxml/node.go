package musicxml

import (
	"encoding/xml"
	"strings"
)

// Node is a generic element, used for the parts of a score that are only
// probed for the presence of a few children: notations, direction types
// and lyrics.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Node     `xml:",any"`
}

func (n *Node) Tag() string { return n.XMLName.Local }

func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// FindAll returns all descendants matching a slash separated path of
// element names.
func (n *Node) FindAll(path string) []*Node {
	level := []*Node{n}
	for _, tag := range strings.Split(path, "/") {
		var next []*Node
		for _, x := range level {
			for i := range x.Children {
				if x.Children[i].Tag() == tag {
					next = append(next, &x.Children[i])
				}
			}
		}
		level = next
	}
	return level
}

// Find returns the first descendant matching path or nil.
func (n *Node) Find(path string) *Node {
	if xs := n.FindAll(path); len(xs) > 0 {
		return xs[0]
	}
	return nil
}

// FindText returns the text of the first descendant matching path and
// whether it was found.
func (n *Node) FindText(path string) (string, bool) {
	if x := n.Find(path); x != nil {
		return x.Text, true
	}
	return "", false
}
