package dub

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokInvalid tokenKind = iota
	tokInt
	tokFloat
	tokIdent
	tokString
	tokQuote
	tokComma
	tokColon
	tokSlash
	tokStar
	tokEOF
)

var kindNames = map[tokenKind]string{
	tokInvalid: "invalid",
	tokInt:     "int",
	tokFloat:   "float",
	tokIdent:   "identifier",
	tokString:  "string",
	tokQuote:   "quote",
	tokComma:   "comma",
	tokColon:   "colon",
	tokSlash:   "slash",
	tokStar:    "asterisk",
	tokEOF:     "end of input",
}

func (k tokenKind) String() string { return kindNames[k] }

const eof = -1

var punctuation = map[rune]tokenKind{
	'\'': tokQuote,
	',':  tokComma,
	':':  tokColon,
	'/':  tokSlash,
	'*':  tokStar,
}

type token struct {
	kind tokenKind
	pos  int
	text string
}

func lex(input string) ([]token, error) {
	s := &scanner{input: input}
	return s.run()
}

// scanner splits a command line into tokens. pos always points just past the
// last rune read, start at the beginning of the token being scanned.
type scanner struct {
	input string
	start int
	pos   int
	width int

	tokens []token
	err    error
}

func (s *scanner) run() ([]token, error) {
	for s.err == nil {
		switch r := s.next(); {
		case r == eof:
			s.emit(tokEOF)
			return s.tokens, nil
		case r == ' ' || r == '\t':
			s.skipSpace()
		case r == '"':
			s.scanString()
		case unicode.IsLetter(r):
			s.scanIdent()
		case s.startsNumber(r):
			s.scanNumber()
		default:
			if kind, ok := punctuation[r]; ok {
				s.emit(kind)
			} else {
				s.unexpected(r)
			}
		}
	}
	return s.tokens, s.err
}

func (s *scanner) next() rune {
	if s.pos >= len(s.input) {
		s.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	s.width = w
	s.pos += w
	return r
}

func (s *scanner) backup() { s.pos -= s.width }

func (s *scanner) peek() rune {
	r := s.next()
	s.backup()
	return r
}

func (s *scanner) emit(kind tokenKind) {
	s.tokens = append(s.tokens, token{kind, s.start, s.input[s.start:s.pos]})
	s.start = s.pos
	s.width = 0
}

func (s *scanner) unexpected(r rune) {
	if r == eof {
		s.err = fmt.Errorf("unexpected end of input at position %d", s.pos)
		return
	}
	s.err = fmt.Errorf("unexpected character %#U at position %d", r, s.pos-s.width)
}

func (s *scanner) skipSpace() {
	for r := s.peek(); r == ' ' || r == '\t'; r = s.peek() {
		s.next()
	}
	s.start = s.pos
}

// acceptRun consumes runes from set and reports how many were read.
func (s *scanner) acceptRun(set string) int {
	n := 0
	for strings.ContainsRune(set, s.next()) {
		n++
	}
	s.backup()
	return n
}

func (s *scanner) accept(set string) bool {
	if strings.ContainsRune(set, s.next()) {
		return true
	}
	s.backup()
	return false
}

func (s *scanner) scanString() {
	for {
		switch s.next() {
		case '"':
			s.emit(tokString)
			return
		case eof:
			s.err = fmt.Errorf("unterminated string starting at position %d", s.start)
			return
		}
	}
}

// identifiers start with a letter and may contain digits and . - _ after that,
// so property names like env.attack lex as one token.
func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'
}

func (s *scanner) scanIdent() {
	for {
		r := s.next()
		if isIdentRune(r) {
			continue
		}
		s.backup()
		if r == ' ' || r == '\t' || r == eof {
			s.emit(tokIdent)
		} else {
			s.unexpected(r)
		}
		return
	}
}

const digits = "0123456789"

// scanNumber expects the first rune of the number to have been read already.
func (s *scanner) scanNumber() {
	s.backup()
	s.accept("-")
	s.acceptRun(digits)
	float := s.accept(".")
	s.acceptRun(digits)

	switch r := s.peek(); r {
	case ' ', '\t', '/', ':', ',', eof:
		if float {
			s.emit(tokFloat)
		} else {
			s.emit(tokInt)
		}
	default:
		s.next()
		s.unexpected(r)
	}
}

// startsNumber reports whether r, followed by the unread input, begins a
// number like 1, -2, .5 or -.5.
func (s *scanner) startsNumber(r rune) bool {
	rest := s.input[s.pos:]
	switch {
	case isDigit(r):
		return true
	case r == '-':
		rest = strings.TrimPrefix(rest, ".")
		return len(rest) > 0 && isDigit(rune(rest[0]))
	case r == '.':
		return len(rest) > 0 && isDigit(rune(rest[0]))
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
