// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Lua 5.4.
//
// Grammar (simplified):
//
//	block      = {stat} [retstat]
//	stat       = ';' | varlist '=' explist | functioncall | label | break
//	           | goto Name | do block end | while exp do block end
//	           | repeat block until exp
//	           | if exp then block {elseif exp then block} [else block] end
//	           | for Name '=' exp ',' exp [',' exp] do block end
//	           | for namelist in explist do block end
//	           | function funcname funcbody
//	           | local function Name funcbody
//	           | local attnamelist ['=' explist]
//	retstat    = return [explist] [';']
//	funcname   = Name {'.' Name} [':' Name]
//	funcbody   = '(' [parlist] ')' block end
//	suffixedexp = primaryexp { '.' Name | '[' exp ']' | ':' Name args | args }
//	primaryexp = Name | '(' exp ')'
//	args       = '(' [explist] ')' | tableconstructor | String

// A Mode value is a set of flags (or 0) that controls optional parser functionality.
type Mode uint

const (
	// Lenient accepts expression statements that are not calls, and
	// method selections "x:m" without arguments. Editors parse
	// incomplete programs this way.
	Lenient Mode = 1 << iota
)

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename
// is only used when recording position information.
// The type of the argument for the src parameter must be string,
// []byte, or io.Reader.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}, mode Mode) (f *File, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in, mode: mode}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	start := MakePosition(p.tokval.pos.file, 1, 1)
	body := p.parseBlock(start)
	if p.tok != EOF {
		p.in.errorf(p.tokval.pos, "got %#v, want end of file", p.tok)
	}
	f = &File{Path: filename, Body: body, Comments: p.in.comments}
	return f, nil
}

// ParseExpr parses a Lua expression.
// See Parse for explanation of parameters.
func ParseExpr(filename string, src interface{}, mode Mode) (expr Expr, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in, mode: mode}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	expr = p.parseExpr()
	if p.tok == SEMI {
		p.nextToken()
	}
	if p.tok != EOF {
		p.in.errorf(p.tokval.pos, "got %#v after expression, want EOF", p.tok)
	}
	return expr, nil
}

type parser struct {
	mode      Mode
	in        *scanner
	tok       Token
	tokval    tokenValue
	ncomments int // number of scanner comments already attached or skipped
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	p.tok = p.in.nextToken(&p.tokval)
	return oldpos
}

// consume consumes a token of the specified type and returns its position.
func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.in.errorf(p.tokval.pos, "got %#v, want %#v", p.tok, t)
	}
	return p.nextToken()
}

// blockFollow reports whether the current token ends a block.
func (p *parser) blockFollow(withUntil bool) bool {
	switch p.tok {
	case EOF, END, ELSE, ELSEIF:
		return true
	case UNTIL:
		return withUntil
	}
	return false
}

// parseBlock parses statements up to the token that ends the block.
// The terminating token is not consumed.
func (p *parser) parseBlock(start Position) *Block {
	block := &Block{Start: start}
	for !p.blockFollow(true) {
		if p.tok == RETURN {
			block.Stmts = append(block.Stmts, p.parseReturnStmt())
			if !p.blockFollow(true) && p.mode&Lenient == 0 {
				p.in.errorf(p.tokval.pos, "got %#v after return statement, want end of block", p.tok)
			}
			continue
		}
		if stmt := p.parseStmt(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	block.End = p.tokval.pos
	return block
}

// docBefore returns the doc comment attached to a declaration
// starting at pos, and marks all earlier comments as seen.
func (p *parser) docBefore(pos Position) *Doc {
	comments := p.in.comments[p.ncomments:]
	p.ncomments = len(p.in.comments)

	// Take the run of comments on consecutive lines ending
	// on the line before pos.
	i := len(comments)
	line := pos.Line
	for i > 0 {
		c := comments[i-1]
		if c.End.Line != line-1 || !c.Start.Before(pos) {
			break
		}
		line = c.Start.Line
		i--
	}
	if i == len(comments) {
		return nil
	}
	return ParseDoc(comments[i:])
}

func (p *parser) parseStmt() Stmt {
	doc := p.docBefore(p.tokval.pos)
	switch p.tok {
	case SEMI:
		p.nextToken()
		return nil
	case IF:
		return p.parseIfStmt()
	case WHILE:
		whilepos := p.nextToken()
		cond := p.parseExpr()
		dopos := p.consume(DO)
		body := p.parseBlock(dopos)
		p.consume(END)
		return &WhileStmt{While: whilepos, Cond: cond, Body: body}
	case DO:
		dopos := p.nextToken()
		body := p.parseBlock(dopos)
		p.consume(END)
		return &DoStmt{Do: dopos, Body: body}
	case FOR:
		return p.parseForStmt()
	case REPEAT:
		repeatpos := p.nextToken()
		body := p.parseBlock(repeatpos)
		untilpos := p.consume(UNTIL)
		cond := p.parseExpr()
		body.End = End(cond)
		return &RepeatStmt{Repeat: repeatpos, Body: body, Until: untilpos, Cond: cond}
	case FUNCTION:
		funcpos := p.nextToken()
		name := p.parseFuncName()
		stmt := &FuncStmt{Doc: doc, Name: name}
		p.parseFunction(&stmt.Function, funcpos)
		return stmt
	case LOCAL:
		localpos := p.nextToken()
		if p.tok == FUNCTION {
			funcpos := p.nextToken()
			stmt := &LocalFuncStmt{Doc: doc, Local: localpos, Name: p.parseIdent()}
			p.parseFunction(&stmt.Function, funcpos)
			return stmt
		}
		return p.parseLocalStmt(doc, localpos)
	case COLONCOLON:
		lpos := p.nextToken()
		name := p.parseIdent()
		rpos := p.consume(COLONCOLON)
		return &LabelStmt{Lcolons: lpos, Name: name, Rcolons: rpos}
	case BREAK:
		pos := p.nextToken()
		return &BranchStmt{Token: BREAK, TokenPos: pos}
	case GOTO:
		pos := p.nextToken()
		return &BranchStmt{Token: GOTO, TokenPos: pos, Label: p.parseIdent()}
	}
	return p.parseExprStmt(doc)
}

// parseIfStmt parses an if or elseif clause and its continuation,
// consuming the final END.
func (p *parser) parseIfStmt() *IfStmt {
	ifpos := p.nextToken() // IF or ELSEIF
	cond := p.parseExpr()
	thenpos := p.consume(THEN)
	stmt := &IfStmt{If: ifpos, Cond: cond, Then: p.parseBlock(thenpos)}
	switch p.tok {
	case ELSEIF:
		stmt.ElsePos = p.tokval.pos
		elif := p.parseIfStmt()
		stmt.Else = &Block{Start: stmt.ElsePos, Stmts: []Stmt{elif}, End: elif.EndPos}
		stmt.EndPos = elif.EndPos
	case ELSE:
		stmt.ElsePos = p.nextToken()
		stmt.Else = p.parseBlock(stmt.ElsePos)
		stmt.EndPos = p.consume(END)
	default:
		stmt.EndPos = p.consume(END)
	}
	return stmt
}

func (p *parser) parseForStmt() Stmt {
	forpos := p.nextToken()
	first := p.parseIdent()
	if p.tok == EQ {
		p.nextToken()
		stmt := &ForNumStmt{For: forpos, Var: first}
		stmt.Start = p.parseExpr()
		p.consume(COMMA)
		stmt.Limit = p.parseExpr()
		if p.tok == COMMA {
			p.nextToken()
			stmt.Step = p.parseExpr()
		}
		dopos := p.consume(DO)
		stmt.Body = p.parseBlock(dopos)
		p.consume(END)
		return stmt
	}
	stmt := &ForInStmt{For: forpos, Vars: []*Ident{first}}
	for p.tok == COMMA {
		p.nextToken()
		stmt.Vars = append(stmt.Vars, p.parseIdent())
	}
	p.consume(IN)
	stmt.X = p.parseExprList()
	dopos := p.consume(DO)
	stmt.Body = p.parseBlock(dopos)
	p.consume(END)
	return stmt
}

func (p *parser) parseFuncName() *FuncName {
	name := &FuncName{Path: []*Ident{p.parseIdent()}}
	for p.tok == DOT {
		p.nextToken()
		name.Path = append(name.Path, p.parseIdent())
	}
	if p.tok == COLON {
		p.nextToken()
		name.Path = append(name.Path, p.parseIdent())
		name.Method = true
	}
	return name
}

// parseFunction parses a parameter list and body, through END.
func (p *parser) parseFunction(fn *Function, funcpos Position) {
	fn.FuncPos = funcpos
	fn.Lparen = p.consume(LPAREN)
	for p.tok != RPAREN {
		if p.tok == ELLIPSIS {
			p.nextToken()
			fn.Vararg = true
			break
		}
		fn.Params = append(fn.Params, p.parseIdent())
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	rparen := p.consume(RPAREN)
	fn.Body = p.parseBlock(rparen)
	p.consume(END)
}

func (p *parser) parseLocalStmt(doc *Doc, localpos Position) *LocalStmt {
	stmt := &LocalStmt{Doc: doc, Local: localpos}
	for {
		stmt.Names = append(stmt.Names, p.parseIdent())
		if p.tok == LT {
			// attribute: <const> or <close>
			p.nextToken()
			attrib := p.parseIdent()
			if attrib.Name != "const" && attrib.Name != "close" {
				p.in.errorf(attrib.NamePos, "unknown attribute '%s'", attrib.Name)
			}
			p.consume(GT)
		}
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	if p.tok == EQ {
		stmt.Eq = p.nextToken()
		stmt.Values = p.parseExprList()
	}
	return stmt
}

func (p *parser) parseReturnStmt() *ReturnStmt {
	stmt := &ReturnStmt{Return: p.nextToken()}
	if !p.blockFollow(true) && p.tok != SEMI {
		stmt.Results = p.parseExprList()
	}
	if p.tok == SEMI {
		p.nextToken()
	}
	return stmt
}

// parseExprStmt parses an assignment or a call statement.
func (p *parser) parseExprStmt(doc *Doc) Stmt {
	x := p.parseSuffixedExpr()
	if p.tok == EQ || p.tok == COMMA {
		lhs := []Expr{x}
		for p.tok == COMMA {
			p.nextToken()
			lhs = append(lhs, p.parseSuffixedExpr())
		}
		for _, e := range lhs {
			switch e.(type) {
			case *Ident, *IndexExpr:
			default:
				p.in.errorf(Start(e), "cannot assign to %s", describe(e))
			}
		}
		eq := p.consume(EQ)
		return &AssignStmt{Doc: doc, LHS: lhs, Eq: eq, RHS: p.parseExprList()}
	}
	if _, ok := x.(*CallExpr); !ok && p.mode&Lenient == 0 {
		p.in.errorf(Start(x), "syntax error: %s is not a statement", describe(x))
	}
	return &ExprStmt{X: x}
}

func (p *parser) parseIdent() *Ident {
	if p.tok != IDENT {
		p.in.errorf(p.tokval.pos, "got %#v, want identifier", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	return id
}

func (p *parser) parseExprList() []Expr {
	list := []Expr{p.parseExpr()}
	for p.tok == COMMA {
		p.nextToken()
		list = append(list, p.parseExpr())
	}
	return list
}

// Binary operator precedence, as {left, right} binding power.
var binaryPrec = map[Token][2]int{
	OR:         {1, 1},
	AND:        {2, 2},
	LT:         {3, 3},
	GT:         {3, 3},
	LE:         {3, 3},
	GE:         {3, 3},
	NEQ:        {3, 3},
	EQL:        {3, 3},
	PIPE:       {4, 4},
	TILDE:      {5, 5},
	AMP:        {6, 6},
	LTLT:       {7, 7},
	GTGT:       {7, 7},
	DOTDOT:     {9, 8}, // right associative
	PLUS:       {10, 10},
	MINUS:      {10, 10},
	STAR:       {11, 11},
	SLASH:      {11, 11},
	SLASHSLASH: {11, 11},
	PERCENT:    {11, 11},
	CIRCUMFLEX: {14, 13}, // right associative
}

const unaryPrec = 12

func (p *parser) parseExpr() Expr {
	return p.parseSubExpr(0)
}

// parseSubExpr parses an expression whose binary operators all bind
// more tightly than limit.
func (p *parser) parseSubExpr(limit int) Expr {
	var x Expr
	switch p.tok {
	case NOT, MINUS, HASH, TILDE:
		op := p.tok
		pos := p.nextToken()
		x = &UnaryExpr{OpPos: pos, Op: op, X: p.parseSubExpr(unaryPrec)}
	default:
		x = p.parseSimpleExpr()
	}
	for {
		prec, ok := binaryPrec[p.tok]
		if !ok || prec[0] <= limit {
			return x
		}
		op := p.tok
		pos := p.nextToken()
		y := p.parseSubExpr(prec[1])
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

func (p *parser) parseSimpleExpr() Expr {
	switch p.tok {
	case NUMBER, STRING:
		return p.parseLiteral()
	case NIL, TRUE, FALSE, ELLIPSIS:
		lit := &Literal{Token: p.tok, TokenPos: p.tokval.pos, Raw: p.tokval.raw}
		switch p.tok {
		case TRUE:
			lit.Value = true
		case FALSE:
			lit.Value = false
		}
		p.nextToken()
		return lit
	case LBRACE:
		return p.parseTable()
	case FUNCTION:
		funcpos := p.nextToken()
		fn := new(FuncExpr)
		p.parseFunction(&fn.Function, funcpos)
		return fn
	}
	return p.parseSuffixedExpr()
}

func (p *parser) parseLiteral() *Literal {
	lit := &Literal{Token: p.tok, TokenPos: p.tokval.pos, Raw: p.tokval.raw, Value: p.tokval.value}
	p.nextToken()
	return lit
}

func (p *parser) parsePrimaryExpr() Expr {
	switch p.tok {
	case IDENT:
		return p.parseIdent()
	case LPAREN:
		lparen := p.nextToken()
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen}
	}
	p.in.errorf(p.tokval.pos, "got %#v, want primary expression", p.tok)
	panic("unreachable")
}

func (p *parser) parseSuffixedExpr() Expr {
	x := p.parsePrimaryExpr()
	for {
		switch p.tok {
		case DOT:
			dot := p.nextToken()
			x = &IndexExpr{X: x, Dot: dot, Name: p.parseIdent()}
		case LBRACK:
			lbrack := p.nextToken()
			key := p.parseExpr()
			rbrack := p.consume(RBRACK)
			x = &IndexExpr{X: x, Lbrack: lbrack, Key: key, Rbrack: rbrack}
		case COLON:
			colon := p.nextToken()
			call := &CallExpr{Fn: x, Colon: colon, Method: p.parseIdent()}
			switch p.tok {
			case LPAREN, STRING, LBRACE:
				p.parseArgs(call)
			default:
				if p.mode&Lenient == 0 {
					p.in.errorf(p.tokval.pos, "got %#v, want method arguments", p.tok)
				}
			}
			x = call
		case LPAREN, STRING, LBRACE:
			call := &CallExpr{Fn: x}
			p.parseArgs(call)
			x = call
		default:
			return x
		}
	}
}

// parseArgs parses the arguments of a call.
func (p *parser) parseArgs(call *CallExpr) {
	switch p.tok {
	case STRING:
		call.Args = []Expr{p.parseLiteral()}
	case LBRACE:
		call.Args = []Expr{p.parseTable()}
	default:
		call.Lparen = p.consume(LPAREN)
		if p.tok != RPAREN {
			call.Args = p.parseExprList()
		}
		call.Rparen = p.consume(RPAREN)
	}
}

func (p *parser) parseTable() *TableExpr {
	table := &TableExpr{Lbrace: p.consume(LBRACE)}
	for p.tok != RBRACE {
		table.Fields = append(table.Fields, p.parseTableField())
		if p.tok != COMMA && p.tok != SEMI {
			break
		}
		p.nextToken()
	}
	table.Rbrace = p.consume(RBRACE)
	return table
}

func (p *parser) parseTableField() *TableField {
	if p.tok == LBRACK {
		lbrack := p.nextToken()
		key := p.parseExpr()
		p.consume(RBRACK)
		p.consume(EQ)
		return &TableField{Lbrack: lbrack, Key: key, Value: p.parseExpr()}
	}
	x := p.parseExpr()
	if id, ok := x.(*Ident); ok && p.tok == EQ {
		p.nextToken()
		return &TableField{Name: id, Value: p.parseExpr()}
	}
	return &TableField{Value: x}
}

// describe returns a short description of an expression for error messages.
func describe(e Expr) string {
	switch e := e.(type) {
	case *Ident:
		return "identifier " + e.Name
	case *Literal:
		return e.Token.String()
	case *CallExpr:
		return "call"
	case *IndexExpr:
		return "index expression"
	case *ParenExpr:
		return "parenthesized expression"
	case *BinaryExpr, *UnaryExpr:
		return "operator expression"
	case *TableExpr:
		return "table constructor"
	case *FuncExpr:
		return "function expression"
	}
	return "expression"
}
