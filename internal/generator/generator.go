// Package generator builds letter sequences for the chain.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces randomized letter sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Letters selects count characters uniformly from pool.
func (g *Generator) Letters(pool []rune, count int) []rune {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	result := make([]rune, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, pool[g.rnd.Intn(len(pool))])
	}
	return result
}

// LettersWeighted selects count characters with weak characters weighted
// 1+factor against 1 for the rest.
func (g *Generator) LettersWeighted(pool []rune, count int, weakSet map[rune]struct{}, factor float64) []rune {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	if factor < 0 {
		factor = 0
	}
	weights := make([]float64, len(pool))
	total := 0.0
	for i, r := range pool {
		w := 1.0
		if _, ok := weakSet[r]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	result := make([]rune, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(pool) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, pool[idx])
	}
	return result
}
