package engine

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Instruction script grammar:
//
//	<maxX> <maxY>
//	<x> <y> <N|E|S|W>
//	<L|R|M>+
//	... more position/instruction line pairs ...
//
// Lines are separated by a single '\n' and one trailing '\n' is allowed.
// Every other byte, including '\r', tabs and repeated spaces, fails lexing.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Heading", Pattern: `[NESW]`},
	{Name: "Moves", Pattern: `[LRM]+`},
	{Name: "Space", Pattern: ` `},
	{Name: "EOL", Pattern: `\n`},
})

type script struct {
	Size     *sizeLine      `parser:"@@"`
	Blocks   []*commandLine `parser:"@@+"`
	Trailing bool           `parser:"@EOL?"`
}

type sizeLine struct {
	X int `parser:"@Number Space"`
	Y int `parser:"@Number"`
}

// commandLine is a position line plus its instruction line. The separating
// newline leads the block so a single trailing newline stays unambiguous.
type commandLine struct {
	X       int    `parser:"EOL @Number Space"`
	Y       int    `parser:"@Number Space"`
	Heading string `parser:"@Heading EOL"`
	Moves   string `parser:"@Moves"`
}

var scriptParser = participle.MustBuild[script](
	participle.Lexer(scriptLexer),
	participle.UseLookahead(2),
)

// Parse validates the whole instruction text against the protocol grammar and
// decodes it into a platform and the ordered command blocks. Validation is all
// or nothing: any error wraps ErrInvalidInputFormat and no batch is returned.
func Parse(text string) (*Batch, error) {
	tree, err := scriptParser.ParseString("instructions", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputFormat, err)
	}

	batch := &Batch{
		Platform: Platform{MaxX: tree.Size.X, MaxY: tree.Size.Y},
		Commands: make([]RoverCommand, 0, len(tree.Blocks)),
	}

	for _, block := range tree.Blocks {
		heading, err := ParseDirection(block.Heading)
		if err != nil {
			return nil, err
		}
		batch.Commands = append(batch.Commands, RoverCommand{
			Start:        Position{X: block.X, Y: block.Y},
			Heading:      heading,
			Instructions: block.Moves,
		})
	}

	return batch, nil
}

// Format renders a batch back into protocol text, without a trailing newline
func Format(batch *Batch) string {
	var b strings.Builder
	b.WriteString(batch.Platform.String())
	for _, cmd := range batch.Commands {
		b.WriteByte('\n')
		b.WriteString(cmd.String())
	}
	return b.String()
}
