package script

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/corerun"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types of the script language.
const (
	EOF corerun.TokType = iota - 1
	Ident
	Number
	firstLiteral
)

var literals = []string{"{", "}", "(", ")", "=", ":", ".", ",", ";"}
var keywords = []string{"int", "obj", "new", "func", "call", "print", "begin", "end"}

var tokenIds = func() map[string]int {
	ids := make(map[string]int)
	id := int(firstLiteral)
	for _, lit := range literals {
		ids[lit] = id
		id++
	}
	for _, kw := range keywords {
		ids[kw] = id
		id++
	}
	return ids
}()

// TokenTypeString returns a readable name for a token type.
func TokenTypeString(t corerun.TokType) string {
	switch t {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	}
	for s, id := range tokenIds {
		if id == int(t) {
			return "'" + s + "'"
		}
	}
	return fmt.Sprintf("token(%d)", int(t))
}

func tokType(s string) corerun.TokType {
	return corerun.TokType(tokenIds[s])
}

// --- lexmachine adapter ----------------------------------------------------

var lexer *lexmachine.Lexer
var lexerErr error
var lexerOnce sync.Once

// scriptLexer compiles the DFA for the script language once.
func scriptLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lx := lexmachine.NewLexer()
		lx.Add([]byte(`(#|//)[^\n]*`), skip)
		for _, name := range keywords { // keywords take precedence over identifiers
			lx.Add([]byte(name), makeToken(tokenIds[name]))
		}
		for _, lit := range literals {
			r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
			lx.Add([]byte(r), makeToken(tokenIds[lit]))
		}
		lx.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), makeToken(int(Ident)))
		lx.Add([]byte(`\-?[0-9]+`), makeToken(int(Number)))
		lx.Add([]byte(`( |\t|\n|\r)+`), skip)
		if err := lx.Compile(); err != nil {
			tracer().Errorf("Error compiling DFA: %v", err)
			lexerErr = err
			return
		}
		lexer = lx
	})
	return lexer, lexerErr
}

// skip is an action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is an action which wraps a scanned match into a token.
func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// Scanner is a tokenizer for script input.
type Scanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

// NewScanner creates a scanner for a given input.
func NewScanner(input string) (*Scanner, error) {
	lx, err := scriptLexer()
	if err != nil {
		return nil, err
	}
	s, err := lx.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{scanner: s, Error: logError}, nil
}

// SetErrorHandler sets an error handler for the scanner.
func (sc *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		sc.Error = logError
		return
	}
	sc.Error = h
}

// NextToken returns the next token of the input, or a token of type EOF.
// Unconsumable input is reported to the error handler and skipped.
func (sc *Scanner) NextToken() corerun.Token {
	tok, err, eof := sc.scanner.Next()
	for err != nil {
		sc.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			sc.scanner.TC = ui.FailTC
		}
		tok, err, eof = sc.scanner.Next()
	}
	if eof {
		at := uint64(sc.scanner.TC)
		return token{kind: EOF, span: corerun.Span{at, at}}
	}
	t := tok.(*lexmachine.Token)
	tracer().Debugf("token %s '%s'", TokenTypeString(corerun.TokType(t.Type)), t.Lexeme)
	k := token{
		kind:   corerun.TokType(t.Type),
		lexeme: string(t.Lexeme),
		span:   corerun.Span{uint64(t.TC), uint64(t.TC + len(t.Lexeme))},
	}
	if k.kind == Number {
		n, err := strconv.ParseInt(k.lexeme, 10, 64)
		if err != nil {
			sc.Error(fmt.Errorf("number %s out of range", k.lexeme))
		}
		k.value = n
	} else {
		k.value = k.lexeme
	}
	return k
}

func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// token implements corerun.Token.
type token struct {
	kind   corerun.TokType
	lexeme string
	value  interface{}
	span   corerun.Span
}

var _ corerun.Token = token{}

func (t token) TokType() corerun.TokType {
	return t.kind
}

func (t token) Lexeme() string {
	return t.lexeme
}

func (t token) Value() interface{} {
	return t.value
}

func (t token) Span() corerun.Span {
	return t.span
}
