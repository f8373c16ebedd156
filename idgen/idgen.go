// Package idgen generates the two kinds of identifier the engine hands out:
// cheap sequential ids for internal trade records, and globally unique ids
// for orders that arrive without a client-supplied id.
package idgen

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sequential is a fast, allocation-light id generator for trade ids: an
// atomic counter formatted through a pooled strings.Builder instead of
// fmt.Sprintf. Trade ids never need to be globally unguessable, only unique
// per engine instance, so uuid would be needlessly expensive here.
type Sequential struct {
	prefix  string
	counter uint64
	pool    sync.Pool
}

// NewSequential creates a generator that emits "<prefix><n>" ids.
func NewSequential(prefix string) *Sequential {
	g := &Sequential{prefix: prefix}
	g.pool = sync.Pool{
		New: func() any {
			b := &strings.Builder{}
			b.Grow(24)
			return b
		},
	}
	return g
}

// Next returns the next unique id in this generator's sequence.
func (g *Sequential) Next() string {
	n := atomic.AddUint64(&g.counter, 1)

	b := g.pool.Get().(*strings.Builder)
	defer func() {
		b.Reset()
		g.pool.Put(b)
	}()

	b.WriteString(g.prefix)
	b.WriteString(strconv.FormatUint(n, 10))
	return b.String()
}

// Order generates a globally unique order id via google/uuid, used when the
// caller submits an order with no id of its own.
func Order() string {
	return uuid.NewString()
}
