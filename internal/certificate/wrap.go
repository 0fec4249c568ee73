package certificate

import "strings"

// measureFunc returns the rendered width of text in the given weight.
type measureFunc func(text string, bold bool) (float64, error)

// wrapSpans breaks spans into lines no wider than width, splitting on spaces.
// A single word wider than width gets a line of its own.
func wrapSpans(spans []Span, width float64, measure measureFunc) ([][]Span, error) {
	type word struct {
		text string
		bold bool
		// glued words continue the previous word without a space, e.g. "Reed" + ",".
		glued bool
	}

	var words []word
	prevEndsSpace := true
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		glued := !prevEndsSpace && !strings.HasPrefix(s.Text, " ")
		for i, w := range strings.Fields(s.Text) {
			words = append(words, word{text: w, bold: s.Bold, glued: i == 0 && glued})
		}
		prevEndsSpace = strings.HasSuffix(s.Text, " ")
	}

	var (
		lines     [][]Span
		current   []Span
		lineWidth float64
	)
	spaceWidth, err := measure(" ", false)
	if err != nil {
		return nil, err
	}

	for _, w := range words {
		ww, err := measure(w.text, w.bold)
		if err != nil {
			return nil, err
		}

		sep := spaceWidth
		if len(current) == 0 || w.glued {
			sep = 0
		}

		if len(current) > 0 && lineWidth+sep+ww > width {
			lines = append(lines, current)
			current, lineWidth, sep = nil, 0, 0
		}

		text := w.text
		if sep > 0 {
			text = " " + text
		}
		if n := len(current); n > 0 && current[n-1].Bold == w.bold {
			current[n-1].Text += text
		} else {
			current = append(current, Span{Text: text, Bold: w.bold})
		}
		lineWidth += sep + ww
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines, nil
}
