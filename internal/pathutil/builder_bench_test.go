package pathutil

import (
	"fmt"
	"testing"
)

func BenchmarkPathBuilder_FieldPath(b *testing.B) {
	b.Run("PathBuilder", func(b *testing.B) {
		for b.Loop() {
			p, release := Acquire()
			p.Push("Order")
			p.Push("lines")
			p.PushItems()
			p.Push("product")
			p.Push("price")
			_ = p.String()
			release()
		}
	})

	b.Run("FmtSprintf", func(b *testing.B) {
		for b.Loop() {
			path := "Order"
			path = fmt.Sprintf("%s.%s", path, "lines")
			path += "[]"
			path = fmt.Sprintf("%s.%s", path, "product")
			path = fmt.Sprintf("%s.%s", path, "price")
			_ = path
		}
	})
}
