package tree

// NodeLevel returns node depth, root has level 0.
func NodeLevel(t *Tree, id int) (l int) {
	n, found := t.Node(id)
	if !found {
		return
	}

	for n.Parent != NoNode {
		l++
		n, _ = t.Node(n.Parent)
	}
	return
}

// NodeVisitor is called for each visited node.
// walkChildren == false skips node children, walkSiblings == false skips the rest of node siblings.
type NodeVisitor func(n Node) (walkChildren, walkSiblings bool)

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// Walk visits subtree nodes depth first, parents before children.
func Walk(t *Tree, id int, mode WalkMode, visitor NodeVisitor) {
	if t.has(id) {
		visitNode(t, id, visitor, (mode&WalkRtl) != 0)
	}
}

func visitNode(t *Tree, id int, v NodeVisitor, rtl bool) (visitSiblings bool) {
	vc, vs := v(t.nodes[id])
	if !vc {
		return vs
	}

	cs := t.children[id]
	for i := range cs {
		c := cs[i]
		if rtl {
			c = cs[len(cs)-1-i]
		}
		if !visitNode(t, c, v, rtl) {
			break
		}
	}
	return vs
}

// NodeFilter selects nodes.
type NodeFilter func(n Node) bool

// IsA selects nodes having one of labels.
func IsA(labels ...string) NodeFilter {
	return func(n Node) bool {
		for _, l := range labels {
			if n.Label == l {
				return true
			}
		}
		return false
	}
}

// IsTerminal selects terminal nodes.
func IsTerminal(n Node) bool {
	return n.Terminal
}

// IsNot negates a filter.
func IsNot(f NodeFilter) NodeFilter {
	return func(n Node) bool {
		return !f(n)
	}
}

// IsAll selects nodes matching all filters.
func IsAll(fs ...NodeFilter) NodeFilter {
	return func(n Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

// Search returns ids of subtree nodes matching filter in depth-first order.
// If deep is false, children of matching nodes are not searched.
func Search(t *Tree, id int, f NodeFilter, deep bool) []int {
	var res []int
	Walk(t, id, WalkLtr, func(n Node) (bool, bool) {
		if f(n) {
			res = append(res, n.ID)
			return deep, true
		}
		return true, true
	})
	return res
}
