package module

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax indicates a malformed call expression.
var ErrSyntax = errors.New("module: syntax error")

// Call is a parsed call expression.
type Call struct {
	ID   FunctionID
	Args [][]byte
}

// ParseCall parses an expression of the form
//
//	namespace::name(arg, 'quoted arg', "another")
//
// The parentheses may be omitted for a call without arguments. Bare
// arguments are trimmed; quoted ones are taken verbatim apart from the
// escapes \\, \', \", \n, \r, \t and \0. An empty bare argument between
// commas is an empty string.
func ParseCall(expr string) (Call, error) {
	p := parser{src: expr}
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		if p.hasPrefix("::") {
			p.pos += 2
			continue
		}
		if !isNameByte(p.peek()) {
			break
		}
		p.pos++
	}
	qualified := expr[start:p.pos]
	ns, name, ok := cutQualified(qualified)
	if !ok {
		return Call{}, p.errorf("expected namespace::name, got %q", qualified)
	}
	id, ok := Lookup(ns, name)
	if !ok {
		return Call{}, fmt.Errorf("%w: %s", ErrUnknownFunction, qualified)
	}

	call := Call{ID: id}
	p.skipSpace()
	if p.eof() {
		return call, nil
	}
	if p.peek() != '(' {
		return Call{}, p.errorf("expected '(' after %s", qualified)
	}
	p.pos++
	args, err := p.arguments()
	if err != nil {
		return Call{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Call{}, p.errorf("unexpected %q after ')'", p.src[p.pos:])
	}
	call.Args = args
	return call, nil
}

// EvaluateString parses expr with ParseCall and evaluates it.
func (c *Context) EvaluateString(expr string) ([]byte, error) {
	call, err := ParseCall(expr)
	if err != nil {
		return nil, err
	}
	return c.Evaluate(call.ID, call.Args)
}

func cutQualified(s string) (ns, name string, ok bool) {
	ns, name, ok = strings.Cut(s, "::")
	if !ok || ns == "" || name == "" || strings.Contains(name, "::") {
		return "", "", false
	}
	return ns, name, true
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) hasPrefix(s string) bool { return strings.HasPrefix(p.src[p.pos:], s) }

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

// arguments parses the argument list after '(' up to and including ')'.
func (p *parser) arguments() ([][]byte, error) {
	p.skipSpace()
	if !p.eof() && p.peek() == ')' {
		p.pos++
		return nil, nil
	}
	var args [][]byte
	for {
		arg, err := p.argument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("missing ')'")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *parser) argument() ([]byte, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("missing ')'")
	}
	if q := p.peek(); q == '\'' || q == '"' {
		return p.quoted(q)
	}
	start := p.pos
	for !p.eof() && p.peek() != ',' && p.peek() != ')' {
		p.pos++
	}
	return []byte(strings.TrimSpace(p.src[start:p.pos])), nil
}

func (p *parser) quoted(q byte) ([]byte, error) {
	open := p.pos
	p.pos++
	out := []byte{}
	for !p.eof() {
		b := p.peek()
		p.pos++
		switch {
		case b == q:
			return out, nil
		case b != '\\':
			out = append(out, b)
		case p.eof():
			return nil, p.errorf("unterminated escape")
		default:
			e := p.peek()
			p.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case '0':
				out = append(out, 0)
			case '\\', '\'', '"':
				out = append(out, e)
			default:
				return nil, p.errorf("unknown escape \\%c", e)
			}
		}
	}
	p.pos = open
	return nil, p.errorf("unterminated string")
}
