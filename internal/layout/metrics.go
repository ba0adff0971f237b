package layout

// Advance widths of the standard Helvetica faces in 1/1000 em, for the
// printable ASCII range starting at the space character.
var helveticaWidths = [...]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // ' ' .. '/'
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556, // '0' .. '?'
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, // '@' .. 'O'
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556, // 'P' .. '_'
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // '`' .. 'o'
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, // 'p' .. '~'
}

var helveticaBoldWidths = [...]int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278, // ' ' .. '/'
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611, // '0' .. '?'
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778, // '@' .. 'O'
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556, // 'P' .. '_'
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611, // '`' .. 'o'
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584, // 'p' .. '~'
}

// Widths outside printable ASCII that show up in transcripts.
var helveticaExtra = map[rune][2]int{
	'\u00a0': {278, 278}, // no-break space
	'\u2022': {350, 350}, // bullet
	'\u2026': {1000, 1000},
	'\u2013': {556, 556},
	'\u2014': {1000, 1000},
	'\u2018': {222, 278},
	'\u2019': {222, 278},
	'\u201c': {333, 500},
	'\u201d': {333, 500},
}

const helveticaFallback = 556

func helveticaAdvance(r rune, bold bool) int {
	if r >= ' ' && r <= '~' {
		if bold {
			return helveticaBoldWidths[r-' ']
		}
		return helveticaWidths[r-' ']
	}
	if w, ok := helveticaExtra[r]; ok {
		if bold {
			return w[1]
		}
		return w[0]
	}
	return helveticaFallback
}
