package document

// The scannable block on the documents is a decorative 21x21 pattern derived
// from the encoded payload, not a standards-compliant QR symbol. The pattern
// is deterministic for a given payload so regenerated documents are
// byte-stable.
const qrGridSize = 21

// QRPattern builds the cell grid for a payload. A cell at (i, j) is filled
// when (payload[(i+j) mod len] + i*j) mod 3 == 0; the three finder markers
// are stamped over the corners afterwards.
func QRPattern(data string) [qrGridSize][qrGridSize]bool {
	if data == "" {
		data = "-"
	}
	var grid [qrGridSize][qrGridSize]bool
	for i := 0; i < qrGridSize; i++ {
		for j := 0; j < qrGridSize; j++ {
			grid[i][j] = (int(data[(i+j)%len(data)])+i*j)%3 == 0
		}
	}
	stampFinder(&grid, 0, 0)
	stampFinder(&grid, 14, 0)
	stampFinder(&grid, 0, 14)
	return grid
}

// stampFinder overwrites a 7x7 corner block with the concentric marker:
// filled ring, white band, filled 3x3 core.
func stampFinder(grid *[qrGridSize][qrGridSize]bool, x, y int) {
	for dx := 0; dx < 7; dx++ {
		for dy := 0; dy < 7; dy++ {
			ring := dx == 0 || dx == 6 || dy == 0 || dy == 6
			core := dx >= 2 && dx <= 4 && dy >= 2 && dy <= 4
			grid[x+dx][y+dy] = ring || core
		}
	}
}
