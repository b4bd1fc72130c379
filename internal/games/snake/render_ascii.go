package snake

import (
	"fmt"
	"strings"
)

// RenderCompact draws the grid one character per cell with no decoration.
//
// Format:
//   - empty='.'
//   - snake heads are upper case letters, bodies the matching lower case letter
//   - props: grow='+', bad='-', gold='$', rock='#'
func RenderCompact(g GridData) string {
	var sb strings.Builder
	for _, row := range g.Tags {
		for _, tag := range row {
			sb.WriteByte(tagChar(tag))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderASCII draws the grid inside a frame with a one-line header. Used by
// the CLI and for debugging.
func RenderASCII(g GridData, title string) string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", g.Cols) + "+\n"

	if title != "" {
		sb.WriteString(title)
		sb.WriteByte('\n')
	}
	sb.WriteString(border)
	for _, line := range strings.Split(strings.TrimSuffix(RenderCompact(g), "\n"), "\n") {
		if g.Rows == 0 {
			break
		}
		sb.WriteString(fmt.Sprintf("|%s|\n", line))
	}
	sb.WriteString(border)
	return sb.String()
}

func tagChar(t Tag) byte {
	switch t.Kind {
	case TagSnakeHead:
		return 'A' + byte(t.ID%26)
	case TagSnakeBody:
		return 'a' + byte(t.ID%26)
	case TagProp:
		switch PropKind(t.ID) {
		case PropGrowFood:
			return '+'
		case PropBadFood:
			return '-'
		case PropGoldFood:
			return '$'
		case PropRock:
			return '#'
		}
		return '?'
	default:
		return '.'
	}
}
