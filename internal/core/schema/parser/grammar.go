package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var tableLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{}()@?,]`},
	{Name: "Newline", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// fileNode is the parse tree of one schema file.
type fileNode struct {
	Pos     lexer.Position
	Version *string      `("version" @String)?`
	Tables  []*tableNode `@@*`
}

type tableNode struct {
	Pos     lexer.Position
	Name    string        `"table" @Ident "{"`
	Columns []*columnNode `@@* "}"`
}

type columnNode struct {
	Pos      lexer.Position
	Name     string           `@Ident`
	Type     string           `@Ident`
	Nullable bool             `@"?"?`
	Attrs    []*attributeNode `@@*`
}

type attributeNode struct {
	Pos  lexer.Position
	Name string         `"@" @Ident`
	Args []*literalNode `("(" (@@ ("," @@)*)? ")")?`
}

type literalNode struct {
	Pos    lexer.Position
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @("true" | "false")`
	Null   bool    `| @"null"`
}

var fileParser = participle.MustBuild[fileNode](
	participle.Lexer(tableLexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)
