package layers

import (
	"math/rand/v2"

	"github.com/golang/glog"
)

// Randomize picks one visible layer per category and hides the rest of that
// category. Categories that allow no selection may end up with every layer
// hidden. Layers whose category is not listed are left alone, and the stack
// order never changes.
//
// rnd supplies the randomness; pass a seeded source for repeatable outfits.
func (c *Collection) Randomize(categories []Category, rnd *rand.Rand) {
	for _, cat := range categories {
		var members []int
		for i, l := range c.layers {
			if l.Category == cat.Name {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}

		pick := rnd.IntN(len(members))
		if cat.AllowsNoSelection {
			// Shifting down by one maps the first member to "none".
			pick -= rnd.IntN(2)
		}

		for pos, i := range members {
			c.layers[i].Visible = pos == pick
		}
		glog.V(2).Infof("layers: randomized %q: picked %d of %d", cat.Name, pick, len(members))
	}
}
