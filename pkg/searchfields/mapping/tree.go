package mapping

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Node is one segment of the mapping tree. A node with children is rendered
// as an object mapping; a node with only a Mapping is a leaf field.
type Node struct {
	Name     string
	Mapping  Fragment
	children []*Node
}

// Child returns the named child, if any.
func (n *Node) Child(name string) (*Node, bool) {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].Name >= name })
	if i < len(n.children) && n.children[i].Name == name {
		return n.children[i], true
	}
	return nil, false
}

func (n *Node) ensureChild(name string) *Node {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].Name >= name })
	if i < len(n.children) && n.children[i].Name == name {
		return n.children[i]
	}
	c := &Node{Name: name}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	return c
}

// insert places f at the path formed by parts below n.
func (n *Node) insert(parts []string, f Fragment) {
	cur := n
	for _, p := range parts {
		cur = cur.ensureChild(p)
	}
	cur.Mapping = f
}

func (n *Node) lookup(parts []string) (*Node, bool) {
	cur := n
	for _, p := range parts {
		next, ok := cur.Child(p)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// MarshalJSON renders the node with keys sorted at every level.
func (n *Node) MarshalJSON() ([]byte, error) {
	if len(n.children) == 0 {
		return json.Marshal(n.Mapping)
	}
	obj := map[string]json.RawMessage{}
	if n.Mapping == nil {
		obj["type"] = json.RawMessage(`"object"`)
		obj["dynamic"] = json.RawMessage(`"true"`)
	} else {
		for k, v := range n.Mapping {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			obj[k] = b
		}
	}
	props, err := marshalChildren(n.children)
	if err != nil {
		return nil, err
	}
	obj["properties"] = props
	return writeObject(obj), nil
}

func marshalChildren(children []*Node) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range children {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(c.Name)
		buf.Write(k)
		buf.WriteByte(':')
		v, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeObject(obj map[string]json.RawMessage) []byte {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(obj[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}
