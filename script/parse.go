package script

import (
	"fmt"
	"strings"

	"github.com/npillmayer/corerun"
	"github.com/timtadh/lexmachine/machines"
)

// SyntaxError is an error found while parsing script input.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse parses script input into a list of top-level items: declarations, function
// definitions, 'begin', 'end' and statements.
func Parse(input string) ([]Node, error) {
	sc, err := NewScanner(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, scanner: sc}
	sc.SetErrorHandler(func(e error) {
		if p.err != nil {
			return
		}
		if ui, is := e.(*machines.UnconsumedInput); is {
			p.err = p.errorAtOffset(ui.StartTC, e.Error())
			return
		}
		p.err = p.errorAt(p.tok, e.Error())
	})
	p.next()
	var items []Node
	for p.err == nil && p.tok.TokType() != EOF {
		var n Node
		switch p.tok.TokType() {
		case tokType("func"):
			n = p.funcDef()
		case tokType("begin"):
			p.next()
			n = beginNode{}
		case tokType("end"):
			p.next()
			n = endNode{}
		default:
			n = p.statement()
		}
		if p.err == nil {
			items = append(items, n)
		}
	}
	if p.err != nil {
		tracer().Errorf("%v", p.err)
		return nil, p.err
	}
	return items, nil
}

type parser struct {
	input   string
	scanner *Scanner
	tok     corerun.Token
	err     error
}

func (p *parser) next() {
	p.tok = p.scanner.NextToken()
	for p.tok.TokType() == tokType(";") {
		p.tok = p.scanner.NextToken()
	}
}

func (p *parser) errorAt(tok corerun.Token, msg string) error {
	pos := 0
	if tok != nil {
		pos = int(tok.Span().From())
	}
	return p.errorAtOffset(pos, msg)
}

// errorAtOffset creates a syntax error for a byte offset into the input.
func (p *parser) errorAtOffset(pos int, msg string) error {
	if pos > len(p.input) {
		pos = len(p.input)
	}
	before := p.input[:pos]
	line := strings.Count(before, "\n") + 1
	col := pos - strings.LastIndex(before, "\n")
	return &SyntaxError{Line: line, Col: col, Msg: msg}
}

func (p *parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = p.errorAt(p.tok, fmt.Sprintf(format, args...))
	}
}

// expect consumes a token of type t and returns its lexeme.
func (p *parser) expect(t corerun.TokType) string {
	if p.err != nil {
		return ""
	}
	if p.tok.TokType() != t {
		p.fail("expected %s, found %s", TokenTypeString(t), p.describe())
		return ""
	}
	lexeme := p.tok.Lexeme()
	p.next()
	return lexeme
}

func (p *parser) describe() string {
	if p.tok.TokType() == EOF {
		return TokenTypeString(EOF)
	}
	return "'" + p.tok.Lexeme() + "'"
}

func (p *parser) accept(t corerun.TokType) bool {
	if p.err == nil && p.tok.TokType() == t {
		p.next()
		return true
	}
	return false
}

// identList parses  ID { ',' ID }
func (p *parser) identList() []string {
	ids := []string{p.expect(Ident)}
	for p.accept(tokType(",")) {
		ids = append(ids, p.expect(Ident))
	}
	return ids
}

// funcDef parses  'func' ID '(' [ identList ] ')' block
func (p *parser) funcDef() Node {
	p.expect(tokType("func"))
	f := &funcNode{name: p.expect(Ident)}
	p.expect(tokType("("))
	if p.tok.TokType() == Ident {
		f.params = p.identList()
	}
	p.expect(tokType(")"))
	f.body = p.block()
	return f
}

// block parses  '{' { statement } '}'
func (p *parser) block() *blockNode {
	p.expect(tokType("{"))
	b := &blockNode{}
	for p.err == nil && p.tok.TokType() != tokType("}") {
		if p.tok.TokType() == EOF {
			p.fail("unterminated block")
			break
		}
		b.stmts = append(b.stmts, p.statement())
	}
	p.expect(tokType("}"))
	return b
}

func (p *parser) statement() Node {
	switch p.tok.TokType() {
	case tokType("int"), tokType("obj"):
		d := &declNode{object: p.tok.TokType() == tokType("obj")}
		p.next()
		d.names = p.identList()
		return d
	case tokType("{"):
		return p.block()
	case tokType("call"):
		p.next()
		c := &callNode{name: p.expect(Ident)}
		p.expect(tokType("("))
		if p.tok.TokType() == Ident {
			c.args = p.identList()
		}
		p.expect(tokType(")"))
		return c
	case tokType("print"):
		p.next()
		return &printNode{value: p.operand()}
	case Ident:
		return p.assignment()
	}
	p.fail("unexpected %s", p.describe())
	return nil
}

// assignment parses one of
//
//    ID '.' ID '=' operand
//    ID '=' 'new' '(' ID ',' operand ')'
//    ID '=' operand
//    ID ':' ID
//
func (p *parser) assignment() Node {
	lhs := p.expect(Ident)
	if p.accept(tokType(".")) {
		key := p.expect(Ident)
		p.expect(tokType("="))
		return &storeNode{name: lhs, key: key, value: p.operand()}
	}
	if p.accept(tokType(":")) {
		return &aliasNode{lhs: lhs, rhs: p.expect(Ident)}
	}
	p.expect(tokType("="))
	if p.accept(tokType("new")) {
		p.expect(tokType("("))
		a := &allocNode{name: lhs, key: p.expect(Ident)}
		p.expect(tokType(","))
		a.value = p.operand()
		p.expect(tokType(")"))
		return a
	}
	return &storeNode{name: lhs, value: p.operand()}
}

// operand parses  NUMBER | ID [ '.' ID ]
func (p *parser) operand() operand {
	if p.err != nil {
		return operand{}
	}
	if p.tok.TokType() == Number {
		op := operand{literal: true, value: p.tok.Value().(int64)}
		p.next()
		return op
	}
	op := operand{name: p.expect(Ident)}
	if p.accept(tokType(".")) {
		op.key = p.expect(Ident)
	}
	return op
}
