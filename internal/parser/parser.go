// Package parser turns closet query expressions such as
// "brand=nike,adidas;size=l;dirty=no;" into a model.ClothingAddress.
//
// Parsing is all-or-nothing: the first error aborts the expression and is
// returned as a *errors.ParseError that records the machine state and the
// tail of the input read so far.
package parser

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/gcbaptista/go-wardrobe-search/config"
	apperrors "github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/lexer"
	"github.com/gcbaptista/go-wardrobe-search/model"
)

type grammarTokens struct {
	equality   string
	separator  string
	terminator string
}

// Parser holds the compiled form of one grammar. It is immutable and safe
// for concurrent use; every Parse call runs on a fresh Machine.
type Parser struct {
	tokens   grammarTokens
	keys     map[string]model.Dimension
	keyNames []string
	sizes    lexer.Converter[model.Size]
	dirty    lexer.Converter[bool]
}

// NewParser compiles a grammar. Empty tokens take their defaults.
func NewParser(g config.Grammar) (*Parser, error) {
	g.Keys = maps.Clone(g.Keys)
	g.ApplyDefaults()
	if problems := g.Validate(); len(problems) > 0 {
		sort.Strings(problems)
		return nil, apperrors.NewValidationError("grammar", strings.Join(problems, "; "))
	}

	keys := g.KeyIndex()
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	return &Parser{
		tokens: grammarTokens{
			equality:   g.Equality,
			separator:  g.Separator,
			terminator: g.Terminator,
		},
		keys:     keys,
		keyNames: names,
		sizes:    lexer.EnumConverter(model.SizeNames(), lexer.Loose, model.SizeWordSeparator),
		dirty:    lexer.BoolConverter(g.Yes, g.No),
	}, nil
}

// NewMachine returns a machine positioned before the first clause.
func (p *Parser) NewMachine() *Machine {
	return &Machine{
		parser:  p,
		state:   newCapturingKey(p.tokens.equality),
		address: model.NewClothingAddress(),
		recent:  make([]rune, 0, fragmentSize),
	}
}

// Parse feeds expression through a fresh machine.
func (p *Parser) Parse(expression string) (*model.ClothingAddress, error) {
	m := p.NewMachine()
	for _, c := range expression {
		if err := m.Feed(c); err != nil {
			return nil, err
		}
	}
	return m.Finish()
}

var defaultParser = mustNewParser(config.DefaultGrammar())

func mustNewParser(g config.Grammar) *Parser {
	p, err := NewParser(g)
	if err != nil {
		panic(fmt.Sprintf("parser: default grammar is invalid: %v", err))
	}
	return p
}

// Parse parses expression with the default grammar.
func Parse(expression string) (*model.ClothingAddress, error) {
	return defaultParser.Parse(expression)
}
