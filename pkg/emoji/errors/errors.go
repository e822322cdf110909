// Package errors provides structured error types for EmojiScript.
//
// This package defines ScriptError, a single error type used for lexical,
// parse and runtime problems. Every error carries a class and a catalog
// code so callers can tell a fatal parse failure from a recoverable notice
// without matching on message text.
package errors

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassLex       ErrorClass = "lex"       // Unrecognized characters
	ClassParse     ErrorClass = "parse"     // Syntax errors
	ClassUndefined ErrorClass = "undefined" // Unknown variables and lists
	ClassIndex     ErrorClass = "index"     // Out of bounds
	ClassType      ErrorClass = "type"      // Operand type mismatches
	ClassValue     ErrorClass = "value"     // Right type, unusable value
)

// ScriptError represents any error from lexing, parsing or evaluation.
type ScriptError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Line    int            `json:"line"`   // 1-based line (0 if unknown)
	Column  int            `json:"column"` // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return e.String()
}

// String returns a single-line representation with location prefix.
func (e *ScriptError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// WithFile returns a copy of the error with the file path set.
func (e *ScriptError) WithFile(file string) *ScriptError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *ScriptError) WithPosition(line, column int) *ScriptError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError reports whether the error aborted a parse.
func (e *ScriptError) IsParseError() bool {
	return e.Class == ClassParse
}

// IsRecoverable reports whether evaluation continues after this error.
// Lexical problems and missing names are notices; everything else stops
// the current run.
func (e *ScriptError) IsRecoverable() bool {
	switch e.Class {
	case ClassLex, ClassUndefined, ClassIndex:
		return true
	}
	return false
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	"LEX-0001": {
		Class:    ClassLex,
		Template: "Illegal character '{{.Char}}'",
	},

	"PARSE-0001": {
		Class:    ClassParse,
		Template: "Syntax error at '{{.Token}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "Syntax error at EOF",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "could not parse {{.Literal}} as integer",
	},

	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "Undefined variable: {{.Name}}",
	},
	"UNDEF-0002": {
		Class:    ClassUndefined,
		Template: "List {{.Name}} not found!",
		Hints:    []string{"create it first with 📋 {{.Name}}"},
	},

	"INDEX-0001": {
		Class:    ClassIndex,
		Template: "Index {{.Index}} out of range!",
	},

	"TYPE-0001": {
		Class:    ClassType,
		Template: "unsupported operand types for {{.Operator}}: {{.Left}} and {{.Right}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "{{.Operation}} expected an integer, got {{.Got}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "{{.Operation}} expected a number, got {{.Got}}",
	},

	"VALUE-0001": {
		Class:    ClassValue,
		Template: "🎲 needs a bound of at least 1, got {{.Got}}",
	},
	"VALUE-0002": {
		Class:    ClassValue,
		Template: "💤 duration must be between 0 and 9223372036 seconds, got {{.Got}}",
	},
	"VALUE-0003": {
		Class:    ClassValue,
		Template: "integer overflow: {{.Left}} {{.Operator}} {{.Right}}",
	},
}

// New creates a ScriptError from the catalog.
// If the code is not found, creates a generic type error with the message.
func New(code string, data map[string]any) *ScriptError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &ScriptError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &ScriptError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a ScriptError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *ScriptError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// NewSimple creates an error without using the catalog.
func NewSimple(class ErrorClass, message string) *ScriptError {
	return &ScriptError{
		Class:   class,
		Message: message,
	}
}

func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings,
// counting runes rather than bytes so the 📦 marker costs nothing extra.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// FuzzyMatch represents a fuzzy match result with its distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// threshold returns the largest edit distance worth suggesting for input.
// Short names (1-3 runes): 1 edit, 4-6: 2 edits, longer: 3 edits.
func threshold(input string) int {
	n := len([]rune(strings.TrimPrefix(input, "📦")))
	switch {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	}
	return 1
}

// FindClosestMatch finds the closest candidate within the edit threshold.
// Returns "" when nothing is close enough or the input matches exactly.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns up to n candidates within the edit threshold,
// closest first. Ties keep lexical order so suggestions are stable.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Value < matches[j].Value
	})

	limit := threshold(input)
	var result []string
	for i := 0; i < len(matches) && len(result) < n; i++ {
		if matches[i].Distance <= limit {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// NewUndefinedVariable creates an undefined variable notice, suggesting a
// bound name when one is a likely typo.
func NewUndefinedVariable(name string, bound []string) *ScriptError {
	err := New("UNDEF-0001", map[string]any{"Name": name})

	if suggestion := FindClosestMatch(name, bound); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}
