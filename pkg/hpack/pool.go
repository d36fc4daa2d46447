package hpack

import "github.com/valyala/bytebufferpool"

// bufPool backs the Encoder's output buffer. The teacher's own encoder
// hand-rolls this same optimization (a reused bytes.Buffer per Encoder
// instance); bytebufferpool generalizes it across Encoder instances and
// across goroutines sharing none, at the cost of an extra dependency
// already present in the domain stack.
var bufPool bytebufferpool.Pool

func getBuf() *bytebufferpool.ByteBuffer  { return bufPool.Get() }
func putBuf(b *bytebufferpool.ByteBuffer) { bufPool.Put(b) }
