package recipe

import (
	"strings"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
)

// segment is one slash-separated part of an entity path, e.g. Step[Mix].
type segment struct {
	tag   string
	name  string
	named bool
}

func parameterPath(recipeID, name string) string {
	return recipeID + "/" + constants.ElementParameter + "[" + name + "]"
}

func formulaValuePath(recipeID string, steps []string, name string) string {
	var b strings.Builder
	b.WriteString(recipeID)
	for _, s := range steps {
		b.WriteString("/" + constants.ElementSteps + "/" + constants.ElementStep + "[")
		b.WriteString(s)
		b.WriteString("]")
	}
	b.WriteString("/" + constants.ElementFormulaValue + "[")
	b.WriteString(name)
	b.WriteString("]")
	return b.String()
}

// splitPath splits on '/' outside of brackets so that names containing a
// slash survive.
func splitPath(path string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range path {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				parts = append(parts, path[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, path[start:])
}

func parseSegment(s string) segment {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return segment{tag: s}
	}
	return segment{tag: s[:open], name: s[open+1 : len(s)-1], named: true}
}

// PathKind reports which entity kind a path addresses, judging by its
// final segment.
func PathKind(path string) (Kind, bool) {
	parts := splitPath(path)
	last := parseSegment(parts[len(parts)-1])
	if !last.named || len(parts) < 2 {
		return 0, false
	}
	switch last.tag {
	case constants.ElementParameter:
		return KindParameter, len(parts) == 2
	case constants.ElementFormulaValue:
		return KindFormulaValue, len(stepChain(path)) > 0
	default:
		return 0, false
	}
}

// stepChain returns the step names a FormulaValue path walks through, or
// nil if the path is not a well-formed Steps/Step chain.
func stepChain(path string) []string {
	parts := splitPath(path)
	if len(parts) < 4 {
		return nil
	}
	middle := parts[1 : len(parts)-1]
	if len(middle)%2 != 0 {
		return nil
	}
	var steps []string
	for i := 0; i < len(middle); i += 2 {
		container := parseSegment(middle[i])
		step := parseSegment(middle[i+1])
		if container.tag != constants.ElementSteps || container.named {
			return nil
		}
		if step.tag != constants.ElementStep || !step.named {
			return nil
		}
		steps = append(steps, step.name)
	}
	return steps
}

// PathRecipeID returns the recipe id a path starts with.
func PathRecipeID(path string) string {
	return splitPath(path)[0]
}

// PathName returns the bracketed name of the final segment, e.g. "Speed"
// for MAIN/Parameter[Speed].
func PathName(path string) string {
	parts := splitPath(path)
	return parseSegment(parts[len(parts)-1]).name
}
