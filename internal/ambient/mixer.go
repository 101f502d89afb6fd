package ambient

// Mix returns the channel-wise arithmetic mean of colors, each channel
// truncated to an integer. An empty input yields Default.
// The result depends only on the multiset of inputs, not their order.
func Mix(colors []RGB) RGB {
	if len(colors) == 0 {
		return Default
	}

	var r, g, b uint64
	for _, c := range colors {
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
	}

	n := uint64(len(colors))
	return RGB{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
	}
}
