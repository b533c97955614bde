package orderbook

type color uint8

const (
	red   color = 0
	black color = 1
)

type treeNode struct {
	order  Order
	color  color
	left   *treeNode
	right  *treeNode
	parent *treeNode
}

// SideTree keeps one side's resting orders in that side's total order.
// The ordering is fixed at construction (NewBidTree / NewAskTree), so a
// tree can never mix the two price directions. Min is the top-of-book
// order for the side.
type SideTree struct {
	root *treeNode
	nil  *treeNode
	less func(a, b Order) bool
	size int
}

func newSideTree(less func(a, b Order) bool) *SideTree {
	sentinel := &treeNode{color: black}
	return &SideTree{root: sentinel, nil: sentinel, less: less}
}

// NewBidTree orders by descending price, ties by ascending ID.
func NewBidTree() *SideTree { return newSideTree(lessBid) }

// NewAskTree orders by ascending price, ties by ascending ID.
func NewAskTree() *SideTree { return newSideTree(lessAsk) }

func (t *SideTree) Size() int { return t.size }

func (t *SideTree) Empty() bool { return t.size == 0 }

// Insert adds an order. Duplicate keys (same price and ID) are kept;
// upstream guarantees ID uniqueness, so this never matters in practice.
func (t *SideTree) Insert(o Order) {
	y := t.nil
	x := t.root
	for x != t.nil {
		y = x
		if t.less(o, x.order) {
			x = x.left
		} else {
			x = x.right
		}
	}
	z := &treeNode{order: o, color: red, left: t.nil, right: t.nil, parent: y}
	if y == t.nil {
		t.root = z
	} else if t.less(o, y.order) {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
}

// Min returns the best-ranked order without removing it.
func (t *SideTree) Min() (Order, bool) {
	n := t.minNode(t.root)
	if n == t.nil {
		return Order{}, false
	}
	return n.order, true
}

// PopMin removes and returns the best-ranked order.
func (t *SideTree) PopMin() (Order, bool) {
	n := t.minNode(t.root)
	if n == t.nil {
		return Order{}, false
	}
	o := n.order
	t.deleteNode(n)
	t.size--
	return o, true
}

// Ascend visits orders best-to-worst until fn returns false.
func (t *SideTree) Ascend(fn func(Order) bool) {
	for n := t.minNode(t.root); n != t.nil; n = t.next(n) {
		if !fn(n.order) {
			return
		}
	}
}

func (t *SideTree) minNode(n *treeNode) *treeNode {
	if n == t.nil {
		return t.nil
	}
	for n.left != t.nil {
		n = n.left
	}
	return n
}

func (t *SideTree) next(n *treeNode) *treeNode {
	if n.right != t.nil {
		return t.minNode(n.right)
	}
	y := n.parent
	for y != t.nil && n == y.right {
		n = y
		y = y.parent
	}
	return y
}

func (t *SideTree) leftRotate(x *treeNode) {
	y := x.right
	x.right = y.left
	if y.left != t.nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *SideTree) rightRotate(x *treeNode) {
	y := x.left
	x.left = y.right
	if y.right != t.nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nil {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (t *SideTree) insertFixup(z *treeNode) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *SideTree) transplant(u, v *treeNode) {
	if u.parent == t.nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *SideTree) deleteNode(z *treeNode) {
	y := z
	yColor := y.color
	var x *treeNode
	switch {
	case z.left == t.nil:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.nil:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.minNode(z.right)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}
	if yColor == black {
		t.deleteFixup(x)
	}
}

func (t *SideTree) deleteFixup(x *treeNode) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rightRotate(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.leftRotate(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
