package csvx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter rune
		expected  [][]string
	}{
		{
			name:      "simple rows",
			input:     "a,b,c\nd,e,f\n",
			delimiter: ',',
			expected:  [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
		},
		{
			name:      "quoted field containing delimiter",
			input:     `"a,b",c`,
			delimiter: ',',
			expected:  [][]string{{"a,b", "c"}},
		},
		{
			name:      "escaped quote inside quoted field",
			input:     `"a""b"`,
			delimiter: ',',
			expected:  [][]string{{`a"b`}},
		},
		{
			name:      "quoted field containing newline",
			input:     "\"line1\nline2\",x",
			delimiter: ',',
			expected:  [][]string{{"line1\nline2", "x"}},
		},
		{
			name:      "trailing row without newline",
			input:     "a,b\nc,d",
			delimiter: ',',
			expected:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:      "trailing row with empty last field",
			input:     "a,b\nc,",
			delimiter: ',',
			expected:  [][]string{{"a", "b"}, {"c", ""}},
		},
		{
			name:      "semicolon delimiter",
			input:     "a;b\n\"c;d\";e",
			delimiter: ';',
			expected:  [][]string{{"a", "b"}, {"c;d", "e"}},
		},
		{
			name:      "empty input",
			input:     "",
			delimiter: ',',
			expected:  nil,
		},
		{
			name:      "uneven row widths",
			input:     "a,b,c\nd\ne,f\n",
			delimiter: ',',
			expected:  [][]string{{"a", "b", "c"}, {"d"}, {"e", "f"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input, tt.delimiter))
		})
	}
}

// TestTokenize_RoundTrip verifies that serializing rows without embedded
// delimiters or newlines and tokenizing them again yields the same rows.
func TestTokenize_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"id", "filename", "status"},
		{"1", "beach_sunset", "Processed with image ID 123"},
		{"2", "mountain", "Refused"},
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteString("\n")
	}

	assert.Equal(t, rows, Tokenize(sb.String(), ','))
}

// TestTokenize_Deterministic verifies the tokenizer is a pure function.
func TestTokenize_Deterministic(t *testing.T) {
	input := "a,\"b,c\"\n\"d\"\"e\",f"
	first := Tokenize(input, ',')
	second := Tokenize(input, ',')
	assert.Equal(t, first, second)
}
