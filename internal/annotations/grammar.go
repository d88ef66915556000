package annotations

import (
	stderrors "errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
)

// Prefix is the first path segment of every annotation this package reads.
// Blocks with any other prefix belong to other tools and are skipped.
const Prefix = "dendrite"

// block is the grammar root: `dendrite::command(name = "x", Word)`
type block struct {
	Path  []string `parser:"@Ident ( '::' @Ident )*"`
	Items []*item  `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

type item struct {
	Pos   lexer.Position
	Key   string `parser:"@Ident"`
	Value *value `parser:"( '=' @@ )?"`
}

type value struct {
	String *string `parser:"  @String"`
	Float  *string `parser:"| @Float"`
	Int    *string `parser:"| @Int"`
	Ident  *string `parser:"| @Ident"`
}

func (v *value) literal() *models.Literal {
	switch {
	case v.String != nil:
		return &models.Literal{Kind: models.LiteralString, Raw: *v.String}
	case v.Float != nil:
		return &models.Literal{Kind: models.LiteralFloat, Raw: *v.Float}
	case v.Int != nil:
		return &models.Literal{Kind: models.LiteralInt, Raw: *v.Int}
	case *v.Ident == "true" || *v.Ident == "false":
		return &models.Literal{Kind: models.LiteralBool, Raw: *v.Ident}
	default:
		return &models.Literal{Kind: models.LiteralIdent, Raw: *v.Ident}
	}
}

// Parser turns annotation blocks into raw key/value and bare-word entries
type Parser struct {
	parser *participle.Parser[block]
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
		{Name: "Int", Pattern: `[-+]?\d+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `::|[(),=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[block](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
	}
}

var defaultParser = NewParser()

// Block is a parsed annotation block
type Block struct {
	Path    []string // e.g. ["dendrite", "variant"]
	Entries []models.RawAnnotation
}

// Directive returns the path segment after the prefix, or "" for a bare `dendrite(...)`
func (b *Block) Directive() string {
	if len(b.Path) < 2 {
		return ""
	}
	return strings.Join(b.Path[1:], "::")
}

// ParseBlock parses a single annotation block. Blocks belonging to other
// tools return (nil, nil).
func (p *Parser) ParseBlock(owner string, ab models.AnnotationBlock) (*Block, error) {
	text := strings.TrimSpace(ab.Text)
	if !hasPrefix(text) {
		return nil, nil
	}

	parsed, err := p.parser.ParseString(ab.Loc.File, text)
	if err != nil {
		loc := ab.Loc
		var perr participle.Error
		if stderrors.As(err, &perr) {
			loc = offset(ab.Loc, perr.Position())
		}
		return nil, errors.NewMalformedAttribute(owner, err).WithLocation(loc)
	}

	out := &Block{Path: parsed.Path}
	for _, it := range parsed.Items {
		entry := models.RawAnnotation{Key: it.Key, Loc: offset(ab.Loc, it.Pos)}
		if it.Value != nil {
			entry.Value = it.Value.literal()
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

// Collect parses every block and concatenates their entries in source order
func (p *Parser) Collect(owner string, blocks []models.AnnotationBlock) ([]models.RawAnnotation, error) {
	var entries []models.RawAnnotation
	for _, ab := range blocks {
		b, err := p.ParseBlock(owner, ab)
		if err != nil {
			return nil, err
		}
		if b != nil {
			entries = append(entries, b.Entries...)
		}
	}
	return entries, nil
}

// Collect parses blocks with the package-level parser
func Collect(owner string, blocks []models.AnnotationBlock) ([]models.RawAnnotation, error) {
	return defaultParser.Collect(owner, blocks)
}

// ParseBlock parses a block with the package-level parser
func ParseBlock(owner string, ab models.AnnotationBlock) (*Block, error) {
	return defaultParser.ParseBlock(owner, ab)
}

func hasPrefix(text string) bool {
	if !strings.HasPrefix(text, Prefix) {
		return false
	}
	rest := strings.TrimSpace(text[len(Prefix):])
	return rest == "" || strings.HasPrefix(rest, "::") || strings.HasPrefix(rest, "(")
}

// offset maps a position inside the annotation text onto the source file
func offset(base errors.SourceLocation, pos lexer.Position) errors.SourceLocation {
	if pos.Line == 0 {
		return base
	}
	if base.Line == 0 {
		return errors.SourceLocation{File: base.File, Line: pos.Line, Column: pos.Column}
	}
	loc := base
	loc.Line += pos.Line - 1
	if pos.Line <= 1 {
		loc.Column += pos.Column - 1
	} else {
		loc.Column = pos.Column
	}
	return loc
}
