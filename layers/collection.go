package layers

// Collection is an ordered stack of sprite layers. Index 0 is the bottom of
// the stack.
//
// Every operation touches only the layers it targets. Operations given an
// index outside the collection do nothing and report false, so a stale
// index held by a user interface cannot corrupt the stack.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	layers []SpriteLayer
}

// Len returns the number of layers.
func (c *Collection) Len() int {
	return len(c.layers)
}

func (c *Collection) valid(i int) bool {
	return i >= 0 && i < len(c.layers)
}

// Append adds l on top of the stack and returns its index. Layers sharing an
// ID are kept; their keys are simply ambiguous.
func (c *Collection) Append(l SpriteLayer) int {
	c.layers = append(c.layers, l)
	return len(c.layers) - 1
}

// At returns the layer at index i.
func (c *Collection) At(i int) (SpriteLayer, bool) {
	if !c.valid(i) {
		return SpriteLayer{}, false
	}
	l := c.layers[i]
	l.OrderIndex = i
	return l, true
}

// Move takes the layer at from out of the stack and reinserts it at to,
// shifting the layers in between by one.
func (c *Collection) Move(from, to int) bool {
	if !c.valid(from) || !c.valid(to) {
		return false
	}
	if from == to {
		return true
	}
	l := c.layers[from]
	if from < to {
		copy(c.layers[from:to], c.layers[from+1:to+1])
	} else {
		copy(c.layers[to+1:from+1], c.layers[to:from])
	}
	c.layers[to] = l
	return true
}

// Remove deletes the layer at i. Layers above it move down by one.
func (c *Collection) Remove(i int) bool {
	if !c.valid(i) {
		return false
	}
	copy(c.layers[i:], c.layers[i+1:])
	c.layers[len(c.layers)-1] = SpriteLayer{}
	c.layers = c.layers[:len(c.layers)-1]
	return true
}

// SetVisible sets the visibility of the layer at i.
func (c *Collection) SetVisible(i int, visible bool) bool {
	if !c.valid(i) {
		return false
	}
	c.layers[i].Visible = visible
	return true
}

// Toggle flips the visibility of the layer at i.
func (c *Collection) Toggle(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.layers[i].Visible = !c.layers[i].Visible
	return true
}

// Layers returns a snapshot of the stack, bottom first.
func (c *Collection) Layers() []SpriteLayer {
	out := make([]SpriteLayer, len(c.layers))
	for i, l := range c.layers {
		l.OrderIndex = i
		out[i] = l
	}
	return out
}

// Visible returns a snapshot of the visible layers, bottom first. This is the
// set a composite is drawn from.
func (c *Collection) Visible() []SpriteLayer {
	var out []SpriteLayer
	for i, l := range c.layers {
		if !l.Visible {
			continue
		}
		l.OrderIndex = i
		out = append(out, l)
	}
	return out
}

// Clear removes every layer.
func (c *Collection) Clear() {
	c.layers = nil
}
