package corerun

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to scanners to define them.
type TokType int

// Tokens represent input tokens of a Core script. They are produced by a scanner.
//
// An example would be a token for an integer literal:
//
//    TokType = Number      // identifier for this kind of tokens (scanner specific)
//    Lexeme  = "4711"      // lexeme how it appeared in the input stream
//    Value   = 4711        // is an int64 value
//    Span    = 67…71       // occured from position 67 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. A span denotes
// a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}
