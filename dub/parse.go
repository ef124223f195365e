// Package dub implements the small command language typed at the chiptune
// prompt: a command name followed by identifiers, numbers, quoted strings and
// step match expressions such as '1,3/*.
package dub

import (
	"fmt"
	"strconv"
	"strings"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (MatchExpr) isNode()  {}

type Command struct {
	Name Identifier
	Args []Node
}

type (
	Identifier string
	Int        int
	Float      float64
	String     string
)

// MatchExpr selects steps of a bar level by level: the first part selects
// beats, every slash moves down to a subdivision of half the length.
type MatchExpr struct {
	parts []part
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(string(c.Name))
	for _, arg := range c.Args {
		fmt.Fprintf(&b, " %v", arg)
	}
	return b.String()
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.command()
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) command() (Command, error) {
	var cmd Command
	t := p.next()
	if t.kind != tokIdent {
		return cmd, unexpected(t)
	}
	cmd.Name = Identifier(t.text)
	for t := p.next(); t.kind != tokEOF; t = p.next() {
		arg, err := p.arg(t)
		if err != nil {
			return cmd, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (p *parser) arg(t token) (Node, error) {
	switch t.kind {
	case tokIdent:
		return Identifier(t.text), nil
	case tokString:
		return String(t.text[1 : len(t.text)-1]), nil
	case tokInt:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case tokQuote:
		return p.matchExpr()
	}
	return nil, unexpected(t)
}

// matchExpr parses the parts following a quote up to the next space
// separated argument or the end of input.
func (p *parser) matchExpr() (MatchExpr, error) {
	var expr MatchExpr
	level := 0
	for {
		sel, err := p.selector()
		if err != nil {
			return expr, err
		}
		expr.parts = append(expr.parts, part{level: level, sel: sel})
		if p.peek().kind != tokSlash {
			return expr, nil
		}
		for p.peek().kind == tokSlash {
			p.next()
			level++
		}
	}
}

func (p *parser) selector() (selector, error) {
	t := p.next()
	switch t.kind {
	case tokStar:
		return matchAll, nil
	case tokInt:
		first, _ := strconv.Atoi(t.text)
		if p.peek().kind == tokColon {
			p.next()
			end := p.next()
			if end.kind != tokInt {
				return nil, unexpected(end)
			}
			last, _ := strconv.Atoi(end.text)
			return span{first, last}, nil
		}
		list := set{first}
		for p.peek().kind == tokComma {
			p.next()
			n := p.next()
			if n.kind != tokInt {
				return nil, unexpected(n)
			}
			i, _ := strconv.Atoi(n.text)
			list = append(list, i)
		}
		return list, nil
	}
	return nil, unexpected(t)
}

func unexpected(t token) error {
	if t.kind == tokEOF {
		return fmt.Errorf("unexpected end of input at position %d", t.pos)
	}
	return fmt.Errorf("unexpected %s %q at position %d", t.kind, t.text, t.pos)
}
