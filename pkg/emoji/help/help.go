// Package help provides the EmojiScript quick reference and example
// programs, shown by the REPL's help and examples commands and by
// `emoji describe`.
package help

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"github.com/sambeau/emojiscript/pkg/emoji/lexer"
)

// Symbol documents one piece of EmojiScript syntax
type Symbol struct {
	Symbol      string
	Name        string // ASCII name, also used for REPL completion
	Category    string
	Description string
	Example     string
}

// Categories in the order the quick reference lists them
var Categories = []string{
	"Output",
	"Variables",
	"Math Operations",
	"Comparisons",
	"Control Flow",
	"Data Types",
	"Lists",
	"Special",
	"Grouping",
}

// Symbols is the complete symbol table
var Symbols = []Symbol{
	{lexer.PRINT.Symbol(), "print", "Output", "Print statement", `📢 💭"Hello!"`},
	{"📦", "variable", "Variables", "Variable name marker", "📦x = 10"},
	{lexer.ASSIGN.Symbol(), "assign", "Variables", "Assignment", "📦x = 10"},
	{lexer.PLUS.Symbol(), "add", "Math Operations", "Addition, or joining when either side is a string", "📢 1 🤝 2"},
	{lexer.MINUS.Symbol(), "subtract", "Math Operations", "Subtraction", "📢 5 💔 2"},
	{lexer.TIMES.Symbol(), "multiply", "Math Operations", "Multiplication", "📢 6 💫 7"},
	{lexer.DIVIDE.Symbol(), "divide", "Math Operations", "Division, always giving a decimal", "📢 15 ✂️ 3"},
	{lexer.GT.Symbol(), "greater", "Comparisons", "Greater than", "📢 5 📈 3"},
	{lexer.LT.Symbol(), "less", "Comparisons", "Less than", "📢 2 📉 4"},
	{lexer.IF.Symbol(), "if", "Control Flow", "If statement, runs the one statement after the condition", "🤔 📦x 📈 5 📢 💭\"big\""},
	{lexer.ELSE.Symbol(), "else", "Control Flow", "Else statement, on the same line as its 🤔", "🤔 📦x 📈 5 📢 💭\"big\" 🤷 📢 💭\"small\""},
	{lexer.LOOP.Symbol(), "loop", "Control Flow", "Loop, runs the one statement after the count", "🔁 3 📢 💭\"hip hip!\""},
	{"💭", "string", "Data Types", "String", `📢 💭"Hello"`},
	{"🔢", "number", "Data Types", "Numbers (just type them directly)", "📢 42"},
	{lexer.LIST.Symbol(), "list", "Lists", "Create list", "📋 📦mylist"},
	{lexer.APPEND.Symbol(), "append", "Lists", "Append to list", "📎 📦mylist 42"},
	{lexer.GET.Symbol(), "get", "Lists", "Get from list, counting from 0", "📢 🎣 📦mylist 0"},
	{lexer.RANDOM.Symbol(), "random", "Special", "Random number from 1 up to the bound", "📢 🎲 10"},
	{lexer.SLEEP.Symbol(), "sleep", "Special", "Sleep/pause for a number of seconds", "💤 1"},
	{lexer.LPAREN.Symbol(), "lparen", "Grouping", "Left parenthesis", "📢 🤜1 🤝 2🤛 💫 3"},
	{lexer.RPAREN.Symbol(), "rparen", "Grouping", "Right parenthesis", "📢 🤜1 🤝 2🤛 💫 3"},
}

// Example is a complete, runnable program
type Example struct {
	Title  string
	Source string
}

// Examples are shown by the REPL's examples command
var Examples = []Example{
	{"Hello World", `📢 💭"Hello, World! 👋"`},
	{"Variables and Math", "📦x = 10\n📦y = 5\n📢 🤜📦x 🤝 📦y🤛"},
	{"If-Else Statement", "📦num = 7\n🤔 🤜📦num 📈 5🤛 📢 💭\"Big number!\" 🤷 📢 💭\"Small number!\""},
	{"Loop", "📦counter = 0\n🔁 3 📦counter = 🤜📦counter 🤝 1🤛\n📢 📦counter"},
	{"Lists", "📋 📦mylist\n📎 📦mylist 42\n📢 🎣 📦mylist 0"},
	{"Random Numbers", "📢 🎲 10"},
	{"Joining Text", "📦apples = 3\n📢 📦apples 🤝 💭\" apples\""},
}

// QuickReference renders the symbol table grouped by category
func QuickReference() string {
	var sb strings.Builder
	sb.WriteString("📚 EmojiScript Quick Reference 📚\n")

	for _, category := range Categories {
		fmt.Fprintf(&sb, "\n%s:\n", category)
		for _, s := range Symbols {
			if s.Category == category {
				fmt.Fprintf(&sb, "%s - %s (e.g., %s)\n", s.Symbol, s.Description, s.Example)
			}
		}
	}

	sb.WriteString("\nEach 🤔, 🤷 and 🔁 controls exactly one statement on the same line.\n")
	sb.WriteString("\nCommands:\n")
	sb.WriteString("help     - Show this help\n")
	sb.WriteString("examples - Show example code\n")
	sb.WriteString("exit     - Exit REPL\n")
	return sb.String()
}

// ExamplesText renders the numbered example programs
func ExamplesText() string {
	var sb strings.Builder
	sb.WriteString("📝 Example Programs 📝\n")

	for i, ex := range Examples {
		fmt.Fprintf(&sb, "\n%d. %s:\n", i+1, ex.Title)
		for _, line := range strings.Split(ex.Source, "\n") {
			sb.WriteString("   " + line + "\n")
		}
	}
	return sb.String()
}

// Lookup finds a symbol by its emoji or its ASCII name
func Lookup(topic string) (Symbol, bool) {
	topic = strings.TrimSpace(topic)
	for _, s := range Symbols {
		if s.Name == strings.ToLower(topic) || strings.TrimSuffix(s.Symbol, "\uFE0F") == strings.TrimSuffix(topic, "\uFE0F") {
			return s, true
		}
	}
	return Symbol{}, false
}

// DescribeTopic returns help text for a symbol, a category or "examples".
// Unknown topics get a "did you mean" hint when one is close.
func DescribeTopic(topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("no topic specified (try: print, loop, lists, examples)")
	}

	if s, ok := Lookup(topic); ok {
		return fmt.Sprintf("%s  %s (%s)\n  %s\n  e.g. %s\n", s.Symbol, s.Name, s.Category, s.Description, s.Example), nil
	}

	for _, category := range Categories {
		if strings.EqualFold(category, topic) {
			var sb strings.Builder
			fmt.Fprintf(&sb, "%s:\n", category)
			for _, s := range Symbols {
				if s.Category == category {
					fmt.Fprintf(&sb, "  %s  %-9s %s\n", s.Symbol, s.Name, s.Description)
				}
			}
			return sb.String(), nil
		}
	}

	if strings.EqualFold(topic, "examples") {
		return ExamplesText(), nil
	}

	msg := fmt.Sprintf("unknown help topic %q", topic)
	if suggestion := perrors.FindClosestMatch(strings.ToLower(topic), Names()); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return "", errors.New(msg)
}

// Names returns every symbol name, sorted
func Names() []string {
	names := make([]string, len(Symbols))
	for i, s := range Symbols {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}
