package particle

// Morton is a Morton (Z-order) code packing a 3D grid cell index into a
// single integer so that spatially close cells tend to be numerically
// close. 21 bits per axis supports grids up to 2^21-1 per side, far beyond
// any practical voxelization resolution.
type Morton uint64

// spreadBits3 interleaves two zero bits after every bit of v, the classic
// "magic numbers" bit-spreading used by 3D Morton encoders.
func spreadBits3(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | (v << 32)) & 0x1f00000000ffff
	v = (v | (v << 16)) & 0x1f0000ff0000ff
	v = (v | (v << 8)) & 0x100f00f00f00f00f
	v = (v | (v << 4)) & 0x10c30c30c30c30c3
	v = (v | (v << 2)) & 0x1249249249249249
	return v
}

func compactBits3(v uint64) uint64 {
	v &= 0x1249249249249249
	v = (v | (v >> 2)) & 0x10c30c30c30c30c3
	v = (v | (v >> 4)) & 0x100f00f00f00f00f
	v = (v | (v >> 8)) & 0x1f0000ff0000ff
	v = (v | (v >> 16)) & 0x1f00000000ffff
	v = (v | (v >> 32)) & 0x1fffff
	return v
}

// EncodeMorton packs grid cell coordinates (x, y, z) into a Morton code.
// x, y, z must each fit in 21 bits (0 <= coord < 2^21).
func EncodeMorton(x, y, z int) Morton {
	return Morton(spreadBits3(uint64(x)) | (spreadBits3(uint64(y)) << 1) | (spreadBits3(uint64(z)) << 2))
}

// Decode unpacks a Morton code back into grid cell coordinates.
func (m Morton) Decode() (x, y, z int) {
	v := uint64(m)
	x = int(compactBits3(v))
	y = int(compactBits3(v >> 1))
	z = int(compactBits3(v >> 2))
	return
}

// neighborOffsets3 lists the 26 offsets of a 3x3x3 neighborhood excluding
// the origin, in lexicographic (dx, dy, dz) order: 6 face-neighbors, 12
// edge-neighbors and 8 corner-neighbors interleaved. Some callers
// (manifold repair) need to treat these three tiers differently and tell
// them apart with NeighborKind.
var neighborOffsets3 = func() [26][3]int {
	var out [26][3]int
	i := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out[i] = [3]int{dx, dy, dz}
				i++
			}
		}
	}
	return out
}()

// NeighborKind classifies a 3x3x3 offset by how many of its axes are
// non-zero: 1 = face-adjacent, 2 = edge-adjacent, 3 = corner-adjacent.
func NeighborKind(dx, dy, dz int) int {
	n := 0
	if dx != 0 {
		n++
	}
	if dy != 0 {
		n++
	}
	if dz != 0 {
		n++
	}
	return n
}

// Morton6Neighbors returns the Morton codes of the 6 face-adjacent cells
// of (x, y, z), used by the segment graph (C2) to connect particles whose
// voxels share a face within one unit-length ball.
func Morton6Neighbors(x, y, z int) [6]Morton {
	return [6]Morton{
		EncodeMorton(x-1, y, z), EncodeMorton(x+1, y, z),
		EncodeMorton(x, y-1, z), EncodeMorton(x, y+1, z),
		EncodeMorton(x, y, z-1), EncodeMorton(x, y, z+1),
	}
}
