package checkin

import (
	"strings"
	"unicode"
)

// blockMarker delimits the generated parameter comment block of a function
// module in abapGit format.
const blockMarker = `*"--`

// parameterSections in the order the rewritten signature declares them.
var parameterSections = []string{"IMPORTING", "EXPORTING", "CHANGING", "TABLES", "EXCEPTIONS"}

// FormatFunctionSource rewrites a function module from the abapGit comment
// block signature into the inline signature the remote editor accepts.
// Source without a closing block marker is assumed to be converted already
// and is returned unchanged.
func FormatFunctionSource(source string) string {
	lines := strings.Split(source, "\n")

	start, end := parametersBlock(lines)
	if end == 0 {
		return source
	}

	// the FUNCTION <name>. header loses its statement terminator
	lines[0] = strings.ReplaceAll(lines[0], ".", "")

	parameters := parseFunctionParameters(lines[start:end])

	var block []string
	for _, section := range parameterSections {
		params := parameters[section]
		if len(params) == 0 {
			continue
		}

		block = append(block, section)
		block = append(block, params...)
	}
	block = append(block, ".")

	rewritten := make([]string, 0, len(lines))
	rewritten = append(rewritten, lines[:start]...)
	rewritten = append(rewritten, block...)
	rewritten = append(rewritten, lines[end+1:]...)

	return strings.Join(rewritten, "\n")
}

// parametersBlock returns the line indexes of the opening and closing block
// markers. A zero end means no complete block was found.
func parametersBlock(lines []string) (int, int) {
	start, end := 0, 0

	for i, line := range lines {
		if strings.HasPrefix(line, blockMarker) {
			start = i
			break
		}
	}

	for i, line := range lines[start+1:] {
		if strings.HasPrefix(line, blockMarker) {
			end = i + start + 1
			break
		}
	}

	return start, end
}

// parseFunctionParameters collects the parameter lines of the comment block
// under their section keywords. TABLES parameters declared with STRUCTURE
// are rewritten to TYPE, the only spelling the remote dialect accepts.
func parseFunctionParameters(block []string) map[string][]string {
	parameters := make(map[string][]string, len(parameterSections))
	for _, section := range parameterSections {
		parameters[section] = nil
	}

	current := ""
	for _, line := range block {
		line = strings.TrimRightFunc(strings.TrimLeft(line, `*" `), unicode.IsSpace)

		if _, ok := parameters[line]; ok {
			current = line
		} else if current != "" {
			parameters[current] = append(parameters[current], line)
		}
	}

	tables := parameters["TABLES"]
	for i, param := range tables {
		fields := strings.Split(param, " ")
		if len(fields) >= 2 && fields[1] == "STRUCTURE" {
			tables[i] = fields[0] + " TYPE " + strings.Join(fields[2:], " ")
		}
	}

	return parameters
}
