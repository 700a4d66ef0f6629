package evaluator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// GoSession evaluates Go fragments with the yaegi interpreter.
type GoSession struct {
	interp *interp.Interpreter
	out    *syncBuffer
	closed bool
}

// NewGoSession creates an interpreter with the standard library loaded and
// the given packages imported.
func NewGoSession(goPath string, imports []string) (*GoSession, error) {
	out := &syncBuffer{}
	i := interp.New(interp.Options{
		GoPath: goPath,
		Stdout: out,
		Stderr: out,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	for _, pkg := range imports {
		if _, err := i.Eval("import " + strconv.Quote(pkg)); err != nil {
			return nil, fmt.Errorf("import %s: %w", pkg, err)
		}
	}
	return &GoSession{interp: i, out: out}, nil
}

// Eval runs code and renders the value of its last statement.
func (s *GoSession) Eval(ctx context.Context, code string) (Outcome, error) {
	if s.closed {
		return Outcome{}, unusable(errors.New("session closed"))
	}
	s.out.Reset()

	// yaegi takes either declarations or statements in one call, not both
	decls, stmts := splitDeclarations(code)
	if decls != "" {
		if _, err := s.eval(ctx, decls); err != nil {
			return Outcome{Output: s.out.String(), Err: goFailure(ctx, err)}, nil
		}
	}
	if strings.TrimSpace(stmts) == "" {
		return Outcome{Output: s.out.String()}, nil
	}

	v, err := s.eval(ctx, stmts)
	outcome := Outcome{Output: s.out.String()}
	if err != nil {
		outcome.Err = goFailure(ctx, err)
		return outcome, nil
	}
	if displaysValue(stmts) {
		outcome.Value, outcome.HasValue = render(v)
	}
	return outcome, nil
}

// splitDeclarations separates the longest run of leading lines that parse
// as top-level declarations from the statements after them.
func splitDeclarations(code string) (string, string) {
	lines := strings.SplitAfter(code, "\n")
	for k := len(lines); k > 0; k-- {
		head := strings.Join(lines[:k], "")
		if strings.TrimSpace(head) == "" {
			break
		}
		if isDeclarations(head) {
			return head, strings.Join(lines[k:], "")
		}
	}
	return "", code
}

func isDeclarations(src string) bool {
	_, err := parser.ParseFile(token.NewFileSet(), "", "package p\n"+src, parser.SkipObjectResolution)
	return err == nil
}

func (s *GoSession) eval(ctx context.Context, code string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.interp.EvalWithContext(ctx, code)
}

// Close releases the session. Further calls to Eval fail.
func (s *GoSession) Close() error {
	s.closed = true
	return nil
}

func goFailure(ctx context.Context, err error) *Failure {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return &Failure{Kind: "timeout", Message: ctxErr.Error()}
	}
	var p interp.Panic
	if errors.As(err, &p) {
		msg, _ := splitMessage(fmt.Sprint(p.Value))
		return &Failure{Kind: "panic", Message: msg, Trace: strings.Split(strings.TrimSpace(string(p.Stack)), "\n")}
	}
	first, rest := splitMessage(err.Error())
	return &Failure{Message: first, Trace: rest}
}

// displaysValue decides from the source whether the value of the last
// statement is shown: not after a trailing ";", not for declarations or
// assignments, not for print calls.
func displaysValue(code string) bool {
	if strings.HasSuffix(strings.TrimSpace(code), ";") {
		return false
	}
	stmts, ok := parseStatements(code)
	if !ok {
		return true
	}
	if len(stmts) == 0 {
		return false
	}
	expr, ok := stmts[len(stmts)-1].(*ast.ExprStmt)
	if !ok {
		return false
	}
	if call, ok := expr.X.(*ast.CallExpr); ok && isPrintCall(call) {
		return false
	}
	return true
}

func parseStatements(code string) ([]ast.Stmt, bool) {
	src := "package p\nfunc _() {\n" + code + "\n}\n"
	f, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	if err != nil || len(f.Decls) != 1 {
		return nil, false
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok || fn.Body == nil {
		return nil, false
	}
	return fn.Body.List, true
}

func isPrintCall(call *ast.CallExpr) bool {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name == "print" || fun.Name == "println"
	case *ast.SelectorExpr:
		pkg, ok := fun.X.(*ast.Ident)
		if !ok {
			return false
		}
		name := fun.Sel.Name
		return (pkg.Name == "fmt" && (strings.HasPrefix(name, "Print") || strings.HasPrefix(name, "Fprint"))) ||
			(pkg.Name == "log" && strings.HasPrefix(name, "Print"))
	}
	return false
}

// render formats a value with %v. Invalid and nil values are not shown.
func render(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return "", false
		}
	}
	if !v.CanInterface() {
		return "", false
	}
	return fmt.Sprintf("%v", v.Interface()), true
}

// syncBuffer collects output written by the interpreter and by goroutines it starts.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
