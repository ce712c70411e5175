// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A lexical scanner for Lua 5.4.

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A Token represents a Lua lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	// Tokens with values
	IDENT  // x
	NUMBER // 123, 0x1F, 1.5e3
	STRING // "foo", 'foo', [[foo]]

	// Punctuation
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	SLASHSLASH // //
	PERCENT    // %
	CIRCUMFLEX // ^
	HASH       // #
	AMP        // &
	TILDE      // ~
	PIPE       // |
	LTLT       // <<
	GTGT       // >>
	EQL        // ==
	NEQ        // ~=
	LE         // <=
	GE         // >=
	LT         // <
	GT         // >
	EQ         // =
	LPAREN     // (
	RPAREN     // )
	LBRACE     // {
	RBRACE     // }
	LBRACK     // [
	RBRACK     // ]
	COLONCOLON // ::
	SEMI       // ;
	COLON      // :
	COMMA      // ,
	DOT        // .
	DOTDOT     // ..
	ELLIPSIS   // ...

	// Keywords
	AND
	BREAK
	DO
	ELSE
	ELSEIF
	END
	FALSE
	FOR
	FUNCTION
	GOTO
	IF
	IN
	LOCAL
	NIL
	NOT
	OR
	REPEAT
	RETURN
	THEN
	TRUE
	UNTIL
	WHILE

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens.
// Use Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= PLUS && tok <= ELLIPSIS {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	IDENT:      "identifier",
	NUMBER:     "number literal",
	STRING:     "string literal",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	SLASHSLASH: "//",
	PERCENT:    "%",
	CIRCUMFLEX: "^",
	HASH:       "#",
	AMP:        "&",
	TILDE:      "~",
	PIPE:       "|",
	LTLT:       "<<",
	GTGT:       ">>",
	EQL:        "==",
	NEQ:        "~=",
	LE:         "<=",
	GE:         ">=",
	LT:         "<",
	GT:         ">",
	EQ:         "=",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACE:     "{",
	RBRACE:     "}",
	LBRACK:     "[",
	RBRACK:     "]",
	COLONCOLON: "::",
	SEMI:       ";",
	COLON:      ":",
	COMMA:      ",",
	DOT:        ".",
	DOTDOT:     "..",
	ELLIPSIS:   "...",
	AND:        "and",
	BREAK:      "break",
	DO:         "do",
	ELSE:       "else",
	ELSEIF:     "elseif",
	END:        "end",
	FALSE:      "false",
	FOR:        "for",
	FUNCTION:   "function",
	GOTO:       "goto",
	IF:         "if",
	IN:         "in",
	LOCAL:      "local",
	NIL:        "nil",
	NOT:        "not",
	OR:         "or",
	REPEAT:     "repeat",
	RETURN:     "return",
	THEN:       "then",
	TRUE:       "true",
	UNTIL:      "until",
	WHILE:      "while",
}

var keywordToken = make(map[string]Token)

func init() {
	for tok := AND; tok < maxToken; tok++ {
		keywordToken[tokenNames[tok]] = tok
	}
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

// Before reports whether p precedes q in the same file.
// The filename is ignored.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// A Comment is a line or long comment.
type Comment struct {
	Start Position
	Text  string // includes the leading "--"
	End   Position
}

// A scanner tokenizes a Lua source file.
type scanner struct {
	rest     []byte   // rest of input
	token    []byte   // token being scanned
	pos      Position // current input position
	comments []Comment
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	// Skip a leading "#!" line.
	if len(data) > 1 && data[0] == '#' && data[1] == '!' {
		if i := strings.IndexByte(string(data), '\n'); i >= 0 {
			data = data[i:]
		} else {
			data = nil
		}
		return &scanner{
			pos:  MakePosition(&filename, 1, 1+int32(len("#!"))),
			rest: data,
		}, nil
	}
	return &scanner{
		pos:  MakePosition(&filename, 1, 1),
		rest: data,
	}, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			err = &os.PathError{Op: "read", Path: filename, Err: err}
			return nil, err
		}
		return data, nil
	case nil:
		return os.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

// An error reports an error at the specified position and aborts the scan.
func (sc *scanner) error(pos Position, s string) {
	panic(Error{pos, s})
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	sc.error(pos, fmt.Sprintf(format, args...))
}

func (sc *scanner) recover(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e) // not a scan error
	}
}

// eof reports whether the input has reached end of file.
func (sc *scanner) eof() bool {
	return len(sc.rest) == 0
}

// peekByte returns the next byte of input, or 0 at end of file.
func (sc *scanner) peekByte() byte {
	if len(sc.rest) > 0 {
		return sc.rest[0]
	}
	return 0
}

// peekAt returns the byte n bytes ahead, or 0 beyond end of file.
func (sc *scanner) peekAt(n int) byte {
	if n < len(sc.rest) {
		return sc.rest[n]
	}
	return 0
}

// readByte consumes a byte of input, updating the position.
func (sc *scanner) readByte() byte {
	if len(sc.rest) == 0 {
		sc.error(sc.pos, "internal scanner error: readByte at EOF")
	}
	b := sc.rest[0]
	sc.rest = sc.rest[1:]
	if b == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else if utf8.RuneStart(b) {
		sc.pos.Col++
	}
	return b
}

// startToken marks the beginning of the next input token.
// It must be followed by a call to endToken once the token has
// been consumed using readByte.
func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.raw = ""
	val.pos = sc.pos
}

// endToken marks the end of an input token.
// It records the actual token string in val.raw.
func (sc *scanner) endToken(val *tokenValue) {
	if val.raw == "" {
		val.raw = string(sc.token[:len(sc.token)-len(sc.rest)])
	}
}

// A tokenValue holds the value of a token.
type tokenValue struct {
	raw    string      // raw text of token
	value  interface{} // = string | int64 | float64
	pos    Position    // start position of token
	endPos Position    // end position of token
}

// nextToken is called by the parser to obtain the next input token.
// It returns the token value and sets val to the data associated with
// the token.
func (sc *scanner) nextToken(val *tokenValue) Token {
	tok := sc.scan(val)
	val.endPos = sc.pos
	return tok
}

func (sc *scanner) scan(val *tokenValue) Token {
	// skip spaces and comments
	for {
		c := sc.peekByte()
		switch c {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			sc.readByte()
			continue
		case '-':
			if sc.peekAt(1) == '-' {
				sc.scanComment()
				continue
			}
		}
		break
	}

	sc.startToken(val)
	defer sc.endToken(val)

	if sc.eof() {
		return EOF
	}

	c := sc.peekByte()

	// identifier or keyword
	if isIdentStart(c) {
		for isIdent(sc.peekByte()) {
			sc.readByte()
		}
		sc.endToken(val)
		if tok, ok := keywordToken[val.raw]; ok {
			return tok
		}
		return IDENT
	}

	// number
	if isDigit(c) || c == '.' && isDigit(sc.peekAt(1)) {
		return sc.scanNumber(val)
	}

	switch c {
	case '"', '\'':
		return sc.scanString(val, c)
	case '[':
		if level := sc.longBracketLevel(); level >= 0 {
			s := sc.scanLongBracket(level)
			sc.endToken(val)
			val.value = s
			return STRING
		}
		sc.readByte()
		return LBRACK
	}

	sc.readByte()
	switch c {
	case '+':
		return PLUS
	case '-':
		return MINUS
	case '*':
		return STAR
	case '/':
		if sc.peekByte() == '/' {
			sc.readByte()
			return SLASHSLASH
		}
		return SLASH
	case '%':
		return PERCENT
	case '^':
		return CIRCUMFLEX
	case '#':
		return HASH
	case '&':
		return AMP
	case '~':
		if sc.peekByte() == '=' {
			sc.readByte()
			return NEQ
		}
		return TILDE
	case '|':
		return PIPE
	case '<':
		switch sc.peekByte() {
		case '<':
			sc.readByte()
			return LTLT
		case '=':
			sc.readByte()
			return LE
		}
		return LT
	case '>':
		switch sc.peekByte() {
		case '>':
			sc.readByte()
			return GTGT
		case '=':
			sc.readByte()
			return GE
		}
		return GT
	case '=':
		if sc.peekByte() == '=' {
			sc.readByte()
			return EQL
		}
		return EQ
	case '(':
		return LPAREN
	case ')':
		return RPAREN
	case '{':
		return LBRACE
	case '}':
		return RBRACE
	case ']':
		return RBRACK
	case ':':
		if sc.peekByte() == ':' {
			sc.readByte()
			return COLONCOLON
		}
		return COLON
	case ';':
		return SEMI
	case ',':
		return COMMA
	case '.':
		if sc.peekByte() == '.' {
			sc.readByte()
			if sc.peekByte() == '.' {
				sc.readByte()
				return ELLIPSIS
			}
			return DOTDOT
		}
		return DOT
	}

	pos := val.pos
	sc.errorf(pos, "unexpected input character %#q", c)
	panic("unreachable")
}

// scanComment consumes a line or long comment and records it.
func (sc *scanner) scanComment() {
	start := sc.pos
	text := sc.rest
	sc.readByte()
	sc.readByte()
	if sc.peekByte() == '[' {
		if level := sc.longBracketLevel(); level >= 0 {
			sc.scanLongBracket(level)
			sc.comments = append(sc.comments, Comment{
				Start: start,
				Text:  string(text[:len(text)-len(sc.rest)]),
				End:   sc.pos,
			})
			return
		}
	}
	for !sc.eof() && sc.peekByte() != '\n' {
		sc.readByte()
	}
	sc.comments = append(sc.comments, Comment{
		Start: start,
		Text:  strings.TrimRight(string(text[:len(text)-len(sc.rest)]), "\r"),
		End:   sc.pos,
	})
}

// longBracketLevel reports the level of the long bracket that starts
// the remaining input ("[[" is 0, "[==[" is 2), or -1 if there is none.
func (sc *scanner) longBracketLevel() int {
	if sc.peekByte() != '[' {
		return -1
	}
	n := 1
	for sc.peekAt(n) == '=' {
		n++
	}
	if sc.peekAt(n) == '[' {
		return n - 1
	}
	return -1
}

// scanLongBracket consumes a long bracket of the given level
// and returns its contents.
func (sc *scanner) scanLongBracket(level int) string {
	start := sc.pos
	for i := 0; i < level+2; i++ {
		sc.readByte()
	}
	// A newline immediately following the opening bracket is skipped.
	if sc.peekByte() == '\r' {
		sc.readByte()
	}
	if sc.peekByte() == '\n' {
		sc.readByte()
	}
	closing := "]" + strings.Repeat("=", level) + "]"
	i := strings.Index(string(sc.rest), closing)
	if i < 0 {
		sc.error(start, "unfinished long string or comment")
	}
	content := string(sc.rest[:i])
	for j := 0; j < i+len(closing); j++ {
		sc.readByte()
	}
	return content
}

func (sc *scanner) scanString(val *tokenValue, quote byte) Token {
	start := sc.pos
	sc.readByte()
	var buf strings.Builder
	for {
		if sc.eof() {
			sc.error(start, "unfinished string")
		}
		c := sc.readByte()
		switch c {
		case quote:
			sc.endToken(val)
			val.value = buf.String()
			return STRING
		case '\n':
			sc.error(start, "unfinished string")
		case '\\':
			sc.scanEscape(&buf)
		default:
			buf.WriteByte(c)
		}
	}
}

// scanEscape decodes the escape sequence following a backslash.
func (sc *scanner) scanEscape(buf *strings.Builder) {
	pos := sc.pos
	if sc.eof() {
		sc.error(pos, "unfinished string")
	}
	c := sc.readByte()
	switch c {
	case 'a':
		buf.WriteByte('\a')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'v':
		buf.WriteByte('\v')
	case '\\', '"', '\'', '\n':
		buf.WriteByte(c)
	case 'z':
		for {
			switch sc.peekByte() {
			case ' ', '\t', '\r', '\n', '\f', '\v':
				sc.readByte()
				continue
			}
			break
		}
	case 'x':
		var hex [2]byte
		for i := range hex {
			if !isHex(sc.peekByte()) {
				sc.error(pos, "hexadecimal digit expected")
			}
			hex[i] = sc.readByte()
		}
		n, _ := strconv.ParseUint(string(hex[:]), 16, 8)
		buf.WriteByte(byte(n))
	case 'u':
		if sc.peekByte() != '{' {
			sc.error(pos, "missing '{' in \\u{xxxx}")
		}
		sc.readByte()
		var digits []byte
		for isHex(sc.peekByte()) {
			digits = append(digits, sc.readByte())
		}
		if sc.peekByte() != '}' || len(digits) == 0 {
			sc.error(pos, "invalid \\u{xxxx} escape")
		}
		sc.readByte()
		n, err := strconv.ParseUint(string(digits), 16, 32)
		if err != nil || n > 0x7FFFFFFF {
			sc.error(pos, "UTF-8 value too large")
		}
		buf.WriteRune(rune(n))
	default:
		if !isDigit(c) {
			sc.errorf(pos, "invalid escape sequence \\%c", c)
		}
		n := int(c - '0')
		for i := 0; i < 2 && isDigit(sc.peekByte()); i++ {
			n = n*10 + int(sc.readByte()-'0')
		}
		if n > 255 {
			sc.error(pos, "decimal escape too large")
		}
		buf.WriteByte(byte(n))
	}
}

func (sc *scanner) scanNumber(val *tokenValue) Token {
	start := sc.pos
	isFloat := false
	if sc.peekByte() == '0' && (sc.peekAt(1) == 'x' || sc.peekAt(1) == 'X') {
		sc.readByte()
		sc.readByte()
		for {
			c := sc.peekByte()
			switch {
			case isHex(c):
			case c == '.':
				isFloat = true
			case c == 'p' || c == 'P':
				isFloat = true
				sc.readByte()
				if c := sc.peekByte(); c == '+' || c == '-' {
					sc.readByte()
				}
				continue
			default:
				goto done
			}
			sc.readByte()
		}
	}
	for {
		c := sc.peekByte()
		switch {
		case isDigit(c):
		case c == '.':
			isFloat = true
		case c == 'e' || c == 'E':
			isFloat = true
			sc.readByte()
			if c := sc.peekByte(); c == '+' || c == '-' {
				sc.readByte()
			}
			continue
		default:
			goto done
		}
		sc.readByte()
	}
done:
	if isIdentStart(sc.peekByte()) {
		sc.errorf(start, "malformed number near %q", string(sc.token[:len(sc.token)-len(sc.rest)+1]))
	}
	sc.endToken(val)
	s := val.raw
	if !isFloat {
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			val.value = n
			return NUMBER
		}
		if u, err := strconv.ParseUint(s, 0, 64); err == nil {
			// hexadecimal integers wrap around
			val.value = int64(u)
			return NUMBER
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		sc.errorf(start, "malformed number near %q", s)
	}
	if err != nil {
		// hexadecimal float without exponent
		f, err = strconv.ParseFloat(s+"p0", 64)
		if err != nil {
			sc.errorf(start, "malformed number near %q", s)
		}
	}
	val.value = f
	return NUMBER
}

func isIdentStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c >= utf8.RuneSelf
}

func isIdent(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
