package pathutil

import "sync"

// Field paths such as "requestBody.items[].tags[].name" rarely go past
// pooledDepth segments; builders that grew past maxPooledDepth are dropped
// instead of pooled.
const (
	pooledDepth    = 8
	maxPooledDepth = 64
)

var builders = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, pooledDepth)}
	},
}

// Acquire returns an empty PathBuilder and the func that gives it back.
// The release func drops the builder's segment strings before pooling it,
// so a pooled builder holds no names from a previous document. Calling
// release more than once has no effect.
func Acquire() (*PathBuilder, func()) {
	p := builders.Get().(*PathBuilder)
	p.Reset()
	var once sync.Once
	return p, func() { once.Do(func() { release(p) }) }
}

func release(p *PathBuilder) {
	if cap(p.segments) > maxPooledDepth {
		return
	}
	clear(p.segments[:cap(p.segments)])
	p.Reset()
	builders.Put(p)
}
