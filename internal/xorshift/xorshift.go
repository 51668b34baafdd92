// Package xorshift implements the 16-bit xorshift generator used to pick
// lamp colors. The 13/9/7 shift triple gives a full 65535 period over
// the non-zero states.
package xorshift

// Generator is a 16-bit xorshift stream. The zero value is not usable;
// construct with New.
type Generator struct {
	y uint16
}

func New() *Generator {
	return &Generator{y: 1}
}

// Seed replaces the state. Zero is ignored since the all-zero state
// never leaves zero.
func (g *Generator) Seed(v uint16) {
	if v != 0 {
		g.y = v
	}
}

func (g *Generator) Uint16() uint16 {
	g.y ^= g.y << 13
	g.y ^= g.y >> 9
	g.y ^= g.y << 7
	return g.y
}

func (g *Generator) State() uint16 {
	return g.y
}
