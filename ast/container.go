package ast

import (
	"fmt"
	"strings"
)

// Container is the ordered, owning collection of children shared by Group and
// Root. Order is significant, duplicates of equal content are allowed, and
// identity (pointer equality) decides membership. Every mutation that attaches
// a child goes through the adopt gate, so illegal nesting fails uniformly.
type Container struct {
	owner    Value
	children []Value
}

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// At returns the child at index i, or nil if i is out of range.
func (c *Container) At(i int) Value {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// Values returns a copy of the child list in order.
func (c *Container) Values() []Value {
	out := make([]Value, len(c.children))
	copy(out, c.children)
	return out
}

// Add appends a value to the container.
func (c *Container) Add(v Value) error {
	return c.Insert(len(c.children), v)
}

// Insert places a value at position i, shifting later children right.
func (c *Container) Insert(i int, v Value) error {
	if i < 0 || i > len(c.children) {
		return fmt.Errorf("pdxscript: insert index %d out of range [0,%d]", i, len(c.children))
	}
	if err := adopt(c.owner, v); err != nil {
		return err
	}
	c.children = append(c.children, nil)
	copy(c.children[i+1:], c.children[i:])
	c.children[i] = v
	return nil
}

// Delete detaches and removes the child at index i.
func (c *Container) Delete(i int) error {
	if i < 0 || i >= len(c.children) {
		return fmt.Errorf("pdxscript: delete index %d out of range [0,%d)", i, len(c.children))
	}
	detach(c.children[i])
	c.children = append(c.children[:i], c.children[i+1:]...)
	return nil
}

// Remove detaches and removes a child by identity. It reports whether the
// value was present; removing an absent value is a no-op.
func (c *Container) Remove(v Value) bool {
	i := c.Find(v)
	if i < 0 {
		return false
	}
	_ = c.Delete(i)
	return true
}

// Clear detaches and removes all children.
func (c *Container) Clear() {
	for _, child := range c.children {
		detach(child)
	}
	c.children = c.children[:0]
}

// Exchange swaps the children at positions i and j without changing ownership.
func (c *Container) Exchange(i, j int) error {
	if i < 0 || i >= len(c.children) || j < 0 || j >= len(c.children) {
		return fmt.Errorf("pdxscript: exchange indexes %d, %d out of range [0,%d)", i, j, len(c.children))
	}
	c.children[i], c.children[j] = c.children[j], c.children[i]
	return nil
}

// ExchangeValues swaps two children located by identity.
func (c *Container) ExchangeValues(a, b Value) error {
	i, j := c.Find(a), c.Find(b)
	if i < 0 || j < 0 {
		return fmt.Errorf("pdxscript: exchange values not present in container")
	}
	return c.Exchange(i, j)
}

// Find returns the position of a child by identity, or -1 if absent.
func (c *Container) Find(v Value) int {
	for i, child := range c.children {
		if child == v {
			return i
		}
	}
	return -1
}

// ContainsAny reports whether any child has the given kind.
func (c *Container) ContainsAny(k Kind) bool {
	for _, child := range c.children {
		if child.Kind() == k {
			return true
		}
	}
	return false
}

// ContainsOnly reports whether every child has the given kind.
func (c *Container) ContainsOnly(k Kind) bool {
	for _, child := range c.children {
		if child.Kind() != k {
			return false
		}
	}
	return true
}

// AsColor interprets the container as an rgb color: exactly three numeric
// children, each in the 0..255 range, read positionally as R, G, B. It
// returns a new unattached Color, or nil when the container does not form
// a color.
func (c *Container) AsColor() *Color {
	if len(c.children) != 3 {
		return nil
	}
	var comps [3]uint8
	for i, child := range c.children {
		var n int64
		switch v := child.(type) {
		case *Integer:
			n = v.Value
		case *Float:
			n = int64(v.Value)
		default:
			return nil
		}
		if n < 0 || n > 255 {
			return nil
		}
		comps[i] = uint8(n)
	}
	return &Color{R: comps[0], G: comps[1], B: comps[2]}
}

// Constructors returns the constructor children whose name matches name
// case-insensitively, or all constructor children when name is empty.
func (c *Container) Constructors(name string) []*Constructor {
	var out []*Constructor
	for _, child := range c.children {
		if ctor, ok := child.(*Constructor); ok && ctor.nameMatches(name) {
			out = append(out, ctor)
		}
	}
	return out
}

// ConstructorCount returns the number of matching constructor children.
func (c *Container) ConstructorCount(name string) int {
	return len(c.Constructors(name))
}

// DeleteConstructors detaches and removes every matching constructor child,
// returning the number removed.
func (c *Container) DeleteConstructors(name string) int {
	removed := 0
	kept := c.children[:0]
	for _, child := range c.children {
		if ctor, ok := child.(*Constructor); ok && ctor.nameMatches(name) {
			detach(child)
			removed++
			continue
		}
		kept = append(kept, child)
	}
	c.children = kept
	return removed
}

// renderLines renders each child as one logical line, in order.
func (c *Container) renderLines() ([]string, error) {
	lines := make([]string, 0, len(c.children))
	for _, child := range c.children {
		s, err := child.Render()
		if err != nil {
			return nil, err
		}
		lines = append(lines, s)
	}
	return lines, nil
}

// Group is a brace-delimited, ordered, anonymous collection of values.
// Use NewGroup; a zero Group cannot own children.
type Group struct {
	node
	Container
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	g := &Group{}
	g.Container.owner = g
	return g
}

func (g *Group) Kind() Kind { return KindGroup }

// Render writes the children one per line, indented by one tab, between a
// leading '{' line and a trailing '}' line.
func (g *Group) Render() (string, error) {
	lines, err := g.renderLines()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, line := range lines {
		for _, sub := range strings.Split(line, "\n") {
			b.WriteByte('\t')
			b.WriteString(sub)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('}')
	return b.String(), nil
}

// Root is the top-level container representing an entire document. It cannot
// be nested inside another value. Use NewRoot; a zero Root cannot own
// children.
type Root struct {
	node
	Container
}

// NewRoot returns an empty document root.
func NewRoot() *Root {
	r := &Root{}
	r.Container.owner = r
	return r
}

func (r *Root) Kind() Kind { return KindRoot }

// Render joins the children's renderings with Unix line endings, without a
// trailing line break. An empty root renders as the empty string.
func (r *Root) Render() (string, error) {
	lines, err := r.renderLines()
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Constructor is the dialect's assignment construct: a name/value pair
// rendered as "name = value". It owns exactly two children; replacing either
// detaches the previous occupant.
type Constructor struct {
	node
	name  *Text
	value Value
}

// NewConstructor builds a constructor owning both the name and the value.
func NewConstructor(name *Text, value Value) (*Constructor, error) {
	c := &Constructor{}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetValue(value); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Constructor) Kind() Kind { return KindConstructor }

// Name returns the owned name text.
func (c *Constructor) Name() *Text { return c.name }

// Value returns the owned right-hand side value.
func (c *Constructor) Value() Value { return c.value }

// SetName adopts a new name text, detaching the previous one.
func (c *Constructor) SetName(name *Text) error {
	if name == nil {
		return &HierarchyError{Message: "constructor name must be a text value"}
	}
	if err := adopt(c, name); err != nil {
		return err
	}
	if c.name != nil {
		detach(c.name)
	}
	c.name = name
	return nil
}

// SetValue adopts a new right-hand side, detaching the previous one.
func (c *Constructor) SetValue(v Value) error {
	if err := adopt(c, v); err != nil {
		return err
	}
	if c.value != nil {
		detach(c.value)
	}
	c.value = v
	return nil
}

func (c *Constructor) nameMatches(name string) bool {
	return name == "" || strings.EqualFold(c.name.Value(), name)
}

func (c *Constructor) Render() (string, error) {
	name, err := c.name.Render()
	if err != nil {
		return "", err
	}
	value, err := c.value.Render()
	if err != nil {
		return "", err
	}
	return name + " = " + value, nil
}
