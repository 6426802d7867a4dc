package structure

// Compressor bijects string part ids to small integers, so the search
// driver can store sets and mappings as integers instead of strings
// during exploration (spec.md §3, §9). It is build-on-first-use and
// append-only: once an id has been assigned an integer, that integer
// never changes, matching the process-wide write-once registry
// contract in spec.md §9.
type Compressor struct {
	toInt    map[string]int
	toString []string
}

// NewCompressor creates an empty, growable compressor.
func NewCompressor() *Compressor {
	return &Compressor{toInt: make(map[string]int)}
}

// Compress returns the integer for id, assigning a fresh one on first
// use.
func (c *Compressor) Compress(id string) int {
	if n, ok := c.toInt[id]; ok {
		return n
	}
	n := len(c.toString)
	c.toInt[id] = n
	c.toString = append(c.toString, id)
	return n
}

// CompressAll compresses a slice of ids, preserving order.
func (c *Compressor) CompressAll(ids []string) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = c.Compress(id)
	}
	return out
}

// Decompress reverses Compress. Panics if n was never assigned by this
// compressor, since that would indicate a cross-compressor id leak.
func (c *Compressor) Decompress(n int) string {
	if n < 0 || n >= len(c.toString) {
		panic("structure: decompress of unknown compressed id")
	}
	return c.toString[n]
}

// DecompressAll reverses CompressAll.
func (c *Compressor) DecompressAll(ns []int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = c.Decompress(n)
	}
	return out
}

// Len reports how many distinct ids have been compressed so far.
func (c *Compressor) Len() int { return len(c.toString) }
