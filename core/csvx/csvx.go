package csvx

// Tokenize splits raw delimited text into rows of fields.
//
// Quoting rules:
//   - A field wrapped in double quotes may contain the delimiter or
//     newlines literally.
//   - A doubled quote ("") inside a quoted field is an escaped quote.
//   - A row boundary is an unquoted '\n'.
//
// A trailing row with accumulated content is emitted even when the input
// does not end with a newline, including when its last field is empty.
func Tokenize(input string, delimiter rune) [][]string {
	var rows [][]string
	var currentRow []string
	var currentField []rune
	insideQuotes := false

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		char := runes[i]

		switch {
		case char == '"':
			// A doubled quote inside a quoted field is an escaped literal
			// quote; anything else flips the quoting state.
			if insideQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				currentField = append(currentField, '"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case char == delimiter && !insideQuotes:
			currentRow = append(currentRow, string(currentField))
			currentField = currentField[:0]
		case char == '\n' && !insideQuotes:
			currentRow = append(currentRow, string(currentField))
			rows = append(rows, currentRow)
			currentRow = nil
			currentField = currentField[:0]
		default:
			currentField = append(currentField, char)
		}
	}

	// Emit the unterminated trailing row, if any.
	if len(currentField) > 0 || len(currentRow) > 0 {
		currentRow = append(currentRow, string(currentField))
		rows = append(rows, currentRow)
	}

	return rows
}
