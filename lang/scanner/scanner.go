// Package scanner implements the lexical scanner consumed by the compiler.
// It is a pure function from source bytes to a token stream: Scan never
// allocates on the managed heap, and its interface is fixed by the compiler's
// scan_token contract.
package scanner

import (
	"fmt"

	"github.com/emberlang/ember/lang/token"
)

// Scanner tokenizes a single source file for the compiler to consume, one
// token at a time.
type Scanner struct {
	src        []byte
	start, cur int
	line       int
}

// Init resets the scanner to tokenize src from the beginning.
func (s *Scanner) Init(src []byte) {
	s.src = src
	s.start = 0
	s.cur = 0
	s.line = 1
}

// Scan returns the next token in the stream. Once EOF is returned, further
// calls keep returning EOF.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.cur

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	if isDigit(c) {
		return s.number()
	}
	if isAlpha(c) {
		return s.identifier()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ';':
		return s.make(token.SEMICOLON)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '!':
		if s.match('=') {
			return s.make(token.BANG_EQ)
		}
		return s.make(token.BANG)
	case '=':
		if s.match('=') {
			return s.make(token.EQ_EQ)
		}
		return s.make(token.EQ)
	case '<':
		if s.match('=') {
			return s.make(token.LESS_EQ)
		}
		return s.make(token.LESS)
	case '>':
		if s.match('=') {
			return s.make(token.GREATER_EQ)
		}
		return s.make(token.GREATER)
	case '"':
		return s.string()
	}

	return s.errorf("unexpected character %q", c)
}

func (s *Scanner) atEnd() bool { return s.cur >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.cur]
	s.cur++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.cur]
}

func (s *Scanner) peekNext() byte {
	if s.cur+1 >= len(s.src) {
		return 0
	}
	return s.src[s.cur+1]
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.cur] != want {
		return false
	}
	s.cur++
	return true
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.cur++
		case '\n':
			s.line++
			s.cur++
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.cur++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// string scans a quote-delimited string literal. Lexeme includes the quotes;
// the compiler is responsible for unescaping the content.
func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		if s.peek() == '\\' && !s.atEnd() {
			s.cur++ // skip escaped character so an escaped quote does not end the literal
		}
		s.cur++
	}
	if s.atEnd() {
		return s.errorf("unterminated string")
	}
	s.cur++ // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.cur++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.cur++ // consume '.'
		for isDigit(s.peek()) {
			s.cur++
		}
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		save := s.cur
		s.cur++
		if c := s.peek(); c == '+' || c == '-' {
			s.cur++
		}
		if isDigit(s.peek()) {
			for isDigit(s.peek()) {
				s.cur++
			}
		} else {
			s.cur = save
		}
	}
	return s.make(token.NUMBER)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.cur++
	}
	text := string(s.src[s.start:s.cur])
	if kw, ok := token.Keywords[text]; ok {
		return s.make(kw)
	}
	return s.make(token.IDENT)
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: string(s.src[s.start:s.cur]), Line: s.line}
}

func (s *Scanner) errorf(format string, args ...any) token.Token {
	return token.Token{Kind: token.ERROR, Lexeme: fmt.Sprintf(format, args...), Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
