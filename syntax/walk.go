// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		Walk(n.Body, f)

	case *Block:
		walkStmts(n.Stmts, f)

	case *LocalStmt:
		for _, id := range n.Names {
			Walk(id, f)
		}
		walkExprs(n.Values, f)

	case *AssignStmt:
		walkExprs(n.LHS, f)
		walkExprs(n.RHS, f)

	case *FuncStmt:
		for _, id := range n.Name.Path {
			Walk(id, f)
		}
		walkFunction(&n.Function, f)

	case *LocalFuncStmt:
		Walk(n.Name, f)
		walkFunction(&n.Function, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *DoStmt:
		Walk(n.Body, f)

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *RepeatStmt:
		Walk(n.Body, f)
		Walk(n.Cond, f)

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}

	case *ForNumStmt:
		Walk(n.Var, f)
		Walk(n.Start, f)
		Walk(n.Limit, f)
		if n.Step != nil {
			Walk(n.Step, f)
		}
		Walk(n.Body, f)

	case *ForInStmt:
		for _, id := range n.Vars {
			Walk(id, f)
		}
		walkExprs(n.X, f)
		Walk(n.Body, f)

	case *ReturnStmt:
		walkExprs(n.Results, f)

	case *BranchStmt:
		if n.Label != nil {
			Walk(n.Label, f)
		}

	case *LabelStmt:
		Walk(n.Name, f)

	case *Ident, *Literal:
		// no-op

	case *ParenExpr:
		Walk(n.X, f)

	case *IndexExpr:
		Walk(n.X, f)
		if n.Name != nil {
			Walk(n.Name, f)
		}
		if n.Key != nil {
			Walk(n.Key, f)
		}

	case *CallExpr:
		Walk(n.Fn, f)
		if n.Method != nil {
			Walk(n.Method, f)
		}
		walkExprs(n.Args, f)

	case *FuncExpr:
		walkFunction(&n.Function, f)

	case *TableExpr:
		for _, field := range n.Fields {
			Walk(field, f)
		}

	case *TableField:
		if n.Name != nil {
			Walk(n.Name, f)
		}
		if n.Key != nil {
			Walk(n.Key, f)
		}
		Walk(n.Value, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkExprs(exprs []Expr, f func(Node) bool) {
	for _, x := range exprs {
		Walk(x, f)
	}
}

func walkFunction(fn *Function, f func(Node) bool) {
	for _, id := range fn.Params {
		Walk(id, f)
	}
	Walk(fn.Body, f)
}

// Enclosing returns the path of nodes from root to the innermost node
// whose span contains pos, outermost first. Spans are treated as
// closed intervals so that a position just after an identifier is
// still within it; when siblings share a boundary the deeper path wins.
// It returns nil if root does not contain pos.
func Enclosing(root Node, pos Position) []Node {
	var path, stack []Node
	Walk(root, func(n Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		start, end := n.Span()
		if pos.Before(start) || end.Before(pos) {
			return false
		}
		stack = append(stack, n)
		if len(stack) > len(path) {
			path = append(path[:0], stack...)
		}
		return true
	})
	return path
}

// Innermost returns the innermost node of Enclosing(root, pos)
// satisfying the predicate, or nil.
func Innermost(root Node, pos Position, pred func(Node) bool) Node {
	path := Enclosing(root, pos)
	for i := len(path) - 1; i >= 0; i-- {
		if pred(path[i]) {
			return path[i]
		}
	}
	return nil
}
