// Package eval tree-walks an ast.Expression against an Environment,
// producing a value.Value (§4.4). It never returns a Go error except
// the three RuntimeError situations §7 names explicitly; every other
// failure mode is represented as value.Empty.
package eval

import (
	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/builtins"
	"github.com/yift/findit/internal/errors"
	"github.com/yift/findit/internal/lexer"
	"github.com/yift/findit/internal/regexcache"
	"github.com/yift/findit/internal/value"
)

// Evaluator holds the process-wide resources a single evaluation may
// need: the regex cache (§5, shared and thread-safe across files).
type Evaluator struct {
	Regex *regexcache.Cache
}

// New builds an Evaluator. A nil cache gets the §5 recommended default
// capacity.
func New(cache *regexcache.Cache) *Evaluator {
	if cache == nil {
		cache = regexcache.New(regexcache.DefaultCapacity)
	}
	return &Evaluator{Regex: cache}
}

// Eval walks expr under env. The only non-nil errors returned are
// *errors.RuntimeError, for the three cases §7 lists.
func (ev *Evaluator) Eval(expr ast.Expression, env *Environment) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.NumberLit:
		return value.Number(n.Value), nil
	case *ast.StringLit:
		return value.String(n.Value), nil
	case *ast.BoolLit:
		return value.Boolean(n.Value), nil
	case *ast.NoneLit:
		return value.Empty, nil
	case *ast.PathLit:
		return value.Path(n.Value), nil
	case *ast.DateLit:
		t, ok := value.ParseDate(n.Raw)
		if !ok {
			return value.Empty, nil
		}
		return value.Date(t), nil
	case *ast.Me:
		return value.Path(env.File().Property("path").Display()), nil
	case *ast.VarRef:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return value.Empty, nil
		}
		return v, nil
	case *ast.ListLit:
		return ev.evalListLit(n, env)
	case *ast.ClassLit:
		return ev.evalClassLit(n, env)
	case *ast.FieldAccess:
		return ev.evalFieldAccess(n, env)
	case *ast.Property:
		return ev.evalProperty(n, env)
	case *ast.MethodCall:
		return ev.evalMethodCall(n, env)
	case *ast.FuncCall:
		return ev.evalFuncCall(n, env)
	case *ast.UnaryOp:
		return ev.evalUnaryOp(n, env)
	case *ast.BinaryOp:
		return ev.evalBinaryOp(n, env)
	case *ast.IsPredicate:
		return ev.evalIsPredicate(n, env)
	case *ast.Cast:
		return ev.evalCast(n, env)
	case *ast.Between:
		return ev.evalBetween(n, env)
	case *ast.IfExpr:
		return ev.evalIf(n, env)
	case *ast.CaseExpr:
		return ev.evalCase(n, env)
	case *ast.WithExpr:
		return ev.evalWith(n, env)
	case *ast.Lambda:
		// A lambda reached directly (not consumed as a higher-order
		// method argument) has no receiver value to bind; it evaluates
		// to Empty rather than raising, since this is a static-shape
		// problem a strict host could catch earlier (§9 method dispatch note).
		return value.Empty, nil
	default:
		return value.Empty, nil
	}
}

func (ev *Evaluator) evalListLit(n *ast.ListLit, env *Environment) (value.Value, error) {
	out := make([]value.Value, len(n.Elements))
	for i, e := range n.Elements {
		v, err := ev.Eval(e, env)
		if err != nil {
			return value.Empty, err
		}
		out[i] = v
	}
	return value.List(out), nil
}

func (ev *Evaluator) evalClassLit(n *ast.ClassLit, env *Environment) (value.Value, error) {
	fields := make([]value.Field, len(n.Fields))
	for i, f := range n.Fields {
		v, err := ev.Eval(f.Value, env)
		if err != nil {
			return value.Empty, err
		}
		fields[i] = value.Field{Key: f.Key, Value: v}
	}
	return value.Class(fields), nil
}

func (ev *Evaluator) evalFieldAccess(n *ast.FieldAccess, env *Environment) (value.Value, error) {
	recv, err := ev.Eval(n.Receiver, env)
	if err != nil {
		return value.Empty, err
	}
	if recv.Kind() != value.KindClass {
		return value.Empty, nil
	}
	v, ok := recv.Field(n.Name)
	if !ok {
		return value.Empty, nil
	}
	return v, nil
}

// fileContextFor resolves the FileContext a Path-kind value refers to:
// the current file's own context when the expression was literally
// `me`/`this`/`self`, otherwise a context resolved relative to it.
func (ev *Evaluator) fileContextFor(recvExpr ast.Expression, recvVal value.Value, env *Environment) FileContext {
	if _, ok := recvExpr.(*ast.Me); ok {
		return env.File()
	}
	return env.File().Child(recvVal.PathValue())
}

func (ev *Evaluator) evalProperty(n *ast.Property, env *Environment) (value.Value, error) {
	if n.Receiver == nil {
		if v, ok := ev.bareImplicitMethod(env.File(), n.Name); ok {
			return v, nil
		}
		return env.File().Property(n.Name), nil
	}
	recv, err := ev.Eval(n.Receiver, env)
	if err != nil {
		return value.Empty, err
	}
	if recv.Kind() != value.KindPath {
		return value.Empty, nil
	}
	return ev.fileContextFor(n.Receiver, recv, env).Property(n.Name), nil
}

// bareImplicitMethod resolves length/lines/words for a receiver-less
// Property node the same way evalPathMethod resolves me.length/
// me.lines/me.words: a bare identifier is shorthand for the implicit
// current file (spec.md's own examples use the bare form throughout),
// so these three names must not just fall through to
// fsctx.Context.Property, which has no cases for them.
func (ev *Evaluator) bareImplicitMethod(ctx FileContext, name string) (value.Value, bool) {
	switch name {
	case "length":
		return value.Number(uint64(len([]rune(ctx.Property("path").Display())))), true
	case "lines", "words":
		content := ctx.Property("content")
		if content.Kind() != value.KindString {
			return value.Empty, true
		}
		v, _ := builtins.StringMethod(content.StringValue(), name, nil)
		return v, true
	}
	return value.Empty, false
}

func (ev *Evaluator) evalMethodCall(n *ast.MethodCall, env *Environment) (value.Value, error) {
	recv, err := ev.Eval(n.Receiver, env)
	if err != nil {
		return value.Empty, err
	}
	if recv.IsEmpty() {
		if n.Name == "debug" {
			return ev.evalDebug(recv, n.Args, env)
		}
		return value.Empty, nil
	}

	switch recv.Kind() {
	case value.KindPath:
		return ev.evalPathMethod(n, recv, env)
	case value.KindString:
		if n.Name == "debug" {
			return ev.evalDebug(recv, n.Args, env)
		}
		args, err := ev.evalScalarArgs(n.Args, env)
		if err != nil {
			return value.Empty, err
		}
		v, ok := builtins.StringMethod(recv.StringValue(), n.Name, args)
		if !ok {
			return value.Empty, nil
		}
		return v, nil
	case value.KindList:
		return ev.evalListMethod(n, recv, env)
	default:
		if n.Name == "debug" {
			return ev.evalDebug(recv, n.Args, env)
		}
		return value.Empty, nil
	}
}

func (ev *Evaluator) evalPathMethod(n *ast.MethodCall, recv value.Value, env *Environment) (value.Value, error) {
	switch n.Name {
	case "length":
		return value.Number(uint64(len([]rune(recv.PathValue())))), nil
	case "debug":
		return ev.evalDebug(recv, n.Args, env)
	}
	ctx := ev.fileContextFor(n.Receiver, recv, env)
	switch n.Name {
	case "walk":
		return ctx.Property("walk"), nil
	case "lines", "words":
		content := ctx.Property("content")
		if content.Kind() != value.KindString {
			return value.Empty, nil
		}
		v, _ := builtins.StringMethod(content.StringValue(), n.Name, nil)
		return v, nil
	}
	// Fall through to the path/file property list for the paren-free
	// `.name` form the parser also routes through MethodCall.
	if len(n.Args) == 0 {
		return ctx.Property(n.Name), nil
	}
	return value.Empty, nil
}

func (ev *Evaluator) evalListMethod(n *ast.MethodCall, recv value.Value, env *Environment) (value.Value, error) {
	list := recv.ListValue()
	if len(n.Args) == 1 {
		if lambda, ok := n.Args[0].(*ast.Lambda); ok {
			apply := func(item value.Value) value.Value {
				child := env.WithValue(lambda.Param, item)
				v, _ := ev.Eval(lambda.Body, child)
				return v
			}
			if v, ok := builtins.ListMethodFn(list, n.Name, apply); ok {
				return v, nil
			}
		}
	}
	args, err := ev.evalScalarArgs(n.Args, env)
	if err != nil {
		return value.Empty, err
	}
	v, ok := builtins.ListMethod(list, n.Name, args)
	if !ok {
		return value.Empty, nil
	}
	return v, nil
}

// evalScalarArgs evaluates a call-argument list that must not contain
// a lambda (every method that isn't itself higher-order).
func (ev *Evaluator) evalScalarArgs(argExprs []ast.Expression, env *Environment) ([]value.Value, error) {
	out := make([]value.Value, len(argExprs))
	for i, a := range argExprs {
		if _, ok := a.(*ast.Lambda); ok {
			return nil, errors.NewRuntimeError(errors.KindLambdaArity, a.Span().Start,
				"lambda argument given to a method that takes no lambda")
		}
		v, err := ev.Eval(a, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev *Evaluator) evalDebug(target value.Value, argExprs []ast.Expression, env *Environment) (value.Value, error) {
	sink := env.File().DebugSink()
	if sink == nil || len(argExprs) != 1 {
		return target, nil
	}
	lambda, ok := argExprs[0].(*ast.Lambda)
	if !ok {
		return target, nil
	}
	child := env.WithValue(lambda.Param, target)
	v, _ := ev.Eval(lambda.Body, child)
	sink.WriteDebug(v.Display())
	return target, nil
}

func (ev *Evaluator) evalUnaryOp(n *ast.UnaryOp, env *Environment) (value.Value, error) {
	switch n.Op {
	case lexer.NOT:
		v, err := ev.Eval(n.Operand, env)
		if err != nil {
			return value.Empty, err
		}
		return value.Not(v), nil
	case lexer.SLASH:
		operand, err := ev.Eval(n.Operand, env)
		if err != nil {
			return value.Empty, err
		}
		me := value.Path(env.File().Property("path").Display())
		return value.JoinPath(me, operand, joinChildPath), nil
	default:
		return value.Empty, nil
	}
}

func joinChildPath(base, child string) string {
	if base == "" {
		return child
	}
	if base[len(base)-1] == '/' {
		return base + child
	}
	return base + "/" + child
}

func (ev *Evaluator) evalBinaryOp(n *ast.BinaryOp, env *Environment) (value.Value, error) {
	switch n.Op {
	case lexer.AND:
		return ev.evalAnd(n, env)
	case lexer.OR:
		return ev.evalOr(n, env)
	}

	left, err := ev.Eval(n.Left, env)
	if err != nil {
		return value.Empty, err
	}
	right, err := ev.Eval(n.Right, env)
	if err != nil {
		return value.Empty, err
	}

	switch n.Op {
	case lexer.XOR:
		return value.Xor(left, right), nil
	case lexer.EQ, lexer.EQ_EQ:
		return value.Equal(left, right), nil
	case lexer.NOT_EQ, lexer.LT_GT:
		return value.Not(value.Equal(left, right)), nil
	case lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ:
		return evalOrdering(n.Op, left, right), nil
	case lexer.PLUS:
		return value.Add(left, right), nil
	case lexer.MINUS:
		return value.Sub(left, right), nil
	case lexer.ASTERISK:
		return value.Mul(left, right), nil
	case lexer.SLASH:
		return value.JoinPath(left, right, joinChildPath), nil
	case lexer.PERCENT:
		return value.Mod(left, right), nil
	case lexer.AMP:
		return value.BitAnd(left, right), nil
	case lexer.PIPE:
		return value.BitOr(left, right), nil
	case lexer.CARET:
		return value.BitXor(left, right), nil
	case lexer.MATCHES:
		return ev.evalMatches(left, right), nil
	default:
		return value.Empty, nil
	}
}

func evalOrdering(op lexer.TokenType, left, right value.Value) value.Value {
	cmp, ok := value.Compare(left, right)
	if !ok {
		return value.Empty
	}
	switch op {
	case lexer.LT:
		return value.Boolean(cmp < 0)
	case lexer.GT:
		return value.Boolean(cmp > 0)
	case lexer.LT_EQ:
		return value.Boolean(cmp <= 0)
	case lexer.GT_EQ:
		return value.Boolean(cmp >= 0)
	default:
		return value.Empty
	}
}

func (ev *Evaluator) evalMatches(left, right value.Value) value.Value {
	if left.Kind() != value.KindString || right.Kind() != value.KindString {
		return value.Empty
	}
	re, ok := ev.Regex.Compile(right.StringValue())
	if !ok {
		return value.Empty
	}
	return value.Boolean(re.MatchString(left.StringValue()))
}

func (ev *Evaluator) evalAnd(n *ast.BinaryOp, env *Environment) (value.Value, error) {
	left, err := ev.Eval(n.Left, env)
	if err != nil {
		return value.Empty, err
	}
	if left.Kind() == value.KindBoolean && !left.BoolValue() {
		return value.Boolean(false), nil
	}
	right, err := ev.Eval(n.Right, env)
	if err != nil {
		return value.Empty, err
	}
	return value.And(left, right), nil
}

func (ev *Evaluator) evalOr(n *ast.BinaryOp, env *Environment) (value.Value, error) {
	left, err := ev.Eval(n.Left, env)
	if err != nil {
		return value.Empty, err
	}
	if left.Kind() == value.KindBoolean && left.BoolValue() {
		return value.Boolean(true), nil
	}
	right, err := ev.Eval(n.Right, env)
	if err != nil {
		return value.Empty, err
	}
	return value.Or(left, right), nil
}

func (ev *Evaluator) evalIsPredicate(n *ast.IsPredicate, env *Environment) (value.Value, error) {
	v, err := ev.Eval(n.Operand, env)
	if err != nil {
		return value.Empty, err
	}
	var result bool
	switch n.Want {
	case lexer.TRUE:
		result = v.Kind() == value.KindBoolean && v.BoolValue()
	case lexer.FALSE:
		result = v.Kind() == value.KindBoolean && !v.BoolValue()
	case lexer.SOME:
		result = !v.IsEmpty()
	case lexer.NONE:
		result = v.IsEmpty()
	}
	if n.Negate {
		result = !result
	}
	return value.Boolean(result), nil
}

func (ev *Evaluator) evalCast(n *ast.Cast, env *Environment) (value.Value, error) {
	v, err := ev.Eval(n.Operand, env)
	if err != nil {
		return value.Empty, err
	}
	switch n.TargetTy {
	case lexer.NUMBERKW, lexer.NUM, lexer.INT, lexer.INTEGER:
		return v.ToNumber(), nil
	case lexer.STRINGKW, lexer.STR, lexer.TEXT:
		return v.ToString(), nil
	case lexer.BOOL, lexer.BOOLEAN:
		return v.ToBoolean(), nil
	case lexer.DATE, lexer.TIME, lexer.TIMESTAMP:
		if v.Kind() == value.KindPath {
			// Open question #1: `AS DATE` on a Path is the file's
			// last-accessed timestamp, not listed among base properties.
			return ev.fileContextFor(n.Operand, v, env).Property("accessed"), nil
		}
		return v.ToDate(), nil
	case lexer.PATH, lexer.FILE, lexer.DIR:
		return v.ToPath(), nil
	default:
		return value.Empty, nil
	}
}

func (ev *Evaluator) evalBetween(n *ast.Between, env *Environment) (value.Value, error) {
	operand, err := ev.Eval(n.Operand, env)
	if err != nil {
		return value.Empty, err
	}
	low, err := ev.Eval(n.Low, env)
	if err != nil {
		return value.Empty, err
	}
	high, err := ev.Eval(n.High, env)
	if err != nil {
		return value.Empty, err
	}
	if operand.IsEmpty() || low.IsEmpty() || high.IsEmpty() {
		return value.Empty, nil
	}
	cmpLow, okLow := value.Compare(operand, low)
	cmpHigh, okHigh := value.Compare(operand, high)
	if !okLow || !okHigh {
		return value.Empty, errors.NewRuntimeError(errors.KindUnorderableBetween, n.Span().Start,
			"BETWEEN operand and bounds are not comparable")
	}
	return value.Boolean(cmpLow >= 0 && cmpHigh <= 0), nil
}

func (ev *Evaluator) evalIf(n *ast.IfExpr, env *Environment) (value.Value, error) {
	cond, err := ev.Eval(n.Cond, env)
	if err != nil {
		return value.Empty, err
	}
	if cond.Kind() == value.KindBoolean && cond.BoolValue() {
		return ev.Eval(n.Then, env)
	}
	if n.Else != nil {
		return ev.Eval(n.Else, env)
	}
	return value.Empty, nil
}

func (ev *Evaluator) evalCase(n *ast.CaseExpr, env *Environment) (value.Value, error) {
	for _, branch := range n.Branches {
		cond, err := ev.Eval(branch.Cond, env)
		if err != nil {
			return value.Empty, err
		}
		if cond.Kind() == value.KindBoolean && cond.BoolValue() {
			return ev.Eval(branch.Value, env)
		}
	}
	if n.Else != nil {
		return ev.Eval(n.Else, env)
	}
	return value.Empty, nil
}

func (ev *Evaluator) evalWith(n *ast.WithExpr, env *Environment) (value.Value, error) {
	scope := env
	for _, b := range n.Bindings {
		expr := b.Expr
		captured := scope
		scope = scope.WithLazy(b.Name, func() value.Value {
			v, _ := ev.Eval(expr, captured)
			return v
		})
	}
	return ev.Eval(n.Body, scope)
}

func (ev *Evaluator) evalFuncCall(n *ast.FuncCall, env *Environment) (value.Value, error) {
	switch n.Name {
	case "now":
		return builtins.Now(), nil
	case "rand":
		return builtins.Rand(), nil
	case "env":
		args, err := ev.evalScalarArgs(n.Args, env)
		if err != nil {
			return value.Empty, err
		}
		if len(args) != 1 || args[0].Kind() != value.KindString {
			return value.Empty, nil
		}
		return builtins.Env(args[0].StringValue()), nil
	case "coalesce":
		return ev.evalCoalesce(n, env)
	case "replace":
		args, err := ev.evalScalarArgs(n.Args, env)
		if err != nil {
			return value.Empty, err
		}
		if len(args) != 3 {
			return value.Empty, nil
		}
		if args[0].Kind() != value.KindString || args[1].Kind() != value.KindString || args[2].Kind() != value.KindString {
			return value.Empty, nil
		}
		return builtins.Replace(ev.Regex, args[0].StringValue(), args[1].StringValue(), args[2].StringValue()), nil
	case "format":
		args, err := ev.evalScalarArgs(n.Args, env)
		if err != nil {
			return value.Empty, err
		}
		if len(args) != 2 || args[0].Kind() != value.KindDate || args[1].Kind() != value.KindString {
			return value.Empty, nil
		}
		return builtins.Format(args[0].DateValue(), args[1].StringValue()), nil
	case "parse":
		args, err := ev.evalScalarArgs(n.Args, env)
		if err != nil {
			return value.Empty, err
		}
		if len(args) != 2 || args[0].Kind() != value.KindString || args[1].Kind() != value.KindString {
			return value.Empty, nil
		}
		return builtins.Parse(args[0].StringValue(), args[1].StringValue()), nil
	case "execout", "execute", "spawn":
		return ev.evalExecFamily(n, env)
	default:
		return value.Empty, nil
	}
}

func (ev *Evaluator) evalCoalesce(n *ast.FuncCall, env *Environment) (value.Value, error) {
	for _, a := range n.Args {
		v, err := ev.Eval(a, env)
		if err != nil {
			return value.Empty, err
		}
		if !v.IsEmpty() {
			return v, nil
		}
	}
	return value.Empty, nil
}

func (ev *Evaluator) evalExecFamily(n *ast.FuncCall, env *Environment) (value.Value, error) {
	args, err := ev.evalScalarArgs(n.Args, env)
	if err != nil {
		return value.Empty, err
	}
	if len(args) == 0 || args[0].Kind() != value.KindString {
		return value.Empty, nil
	}
	path := args[0].StringValue()
	var cmdArgs []string
	intoFile := ""
	for _, a := range args[1:] {
		if a.Kind() == value.KindString {
			cmdArgs = append(cmdArgs, a.StringValue())
		}
	}
	// The trailing `INTO file` form is modeled as a last String
	// argument: for execute and spawn, whenever at least one String
	// argument follows path, the last one is the INTO target and is not
	// passed to the command; findit's call-argument grammar has no
	// dedicated INTO keyword slot.
	if n.Name != "execout" && len(cmdArgs) > 0 {
		intoFile = cmdArgs[len(cmdArgs)-1]
		cmdArgs = cmdArgs[:len(cmdArgs)-1]
	}
	switch n.Name {
	case "execout":
		return builtins.ExecOut(path, cmdArgs), nil
	case "execute":
		return builtins.Execute(path, cmdArgs, intoFile), nil
	case "spawn":
		return builtins.Spawn(path, cmdArgs, intoFile), nil
	default:
		return value.Empty, nil
	}
}
