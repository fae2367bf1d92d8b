// Package parser implements the findit expression parser using Pratt
// parsing: a prefix/infix parse-function table keyed by token type,
// climbing a fixed precedence table. Keyword operators (AND, BETWEEN,
// MATCHES, ...) and symbolic operators (+, =, ...) share the same
// table, since the lexer has already folded both into TokenTypes.
package parser

import (
	"fmt"
	"strconv"

	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/lexer"
)

// Precedence levels, low to high. NOT has no infix slot of its own;
// its prefix parselet parses its operand at notOperand, which sits
// above AND/OR/XOR but below comparisons, matching the way the
// grammar describes NOT as binding tighter than the boolean
// connectives but looser than everything to its right.
const (
	_ int = iota
	LOWEST
	orPrec
	xorPrec
	andPrec
	notOperand
	equality // = == != <> < > <= >= MATCHES BETWEEN
	bitOr
	bitXor
	bitAnd
	sum     // + -
	product // * / % (binary / is both division and the path child)
	prefix  // IS, IS NOT, AS <type>, unary /
	postfix // . OF ::
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      orPrec,
	lexer.XOR:     xorPrec,
	lexer.AND:     andPrec,
	lexer.EQ:      equality,
	lexer.EQ_EQ:   equality,
	lexer.NOT_EQ:  equality,
	lexer.LT_GT:   equality,
	lexer.LT:      equality,
	lexer.GT:      equality,
	lexer.LT_EQ:   equality,
	lexer.GT_EQ:   equality,
	lexer.MATCHES: equality,
	lexer.BETWEEN: equality,
	lexer.PIPE:    bitOr,
	lexer.CARET:   bitXor,
	lexer.AMP:     bitAnd,
	lexer.PLUS:    sum,
	lexer.MINUS:   sum,
	lexer.ASTERISK: product,
	lexer.SLASH:    product,
	lexer.PERCENT:  product,
	lexer.IS:       prefix,
	lexer.AS:       prefix,
	lexer.DOT:        postfix,
	lexer.OF:         postfix,
	lexer.COLONCOLON: postfix,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a findit expression into an ast.Expression tree.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []*ParserError

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading from l and primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:   p.parseIdentifier,
		lexer.NUMBER:  p.parseNumberLit,
		lexer.STRING:  p.parseStringLit,
		lexer.TRUE:    p.parseBoolLit,
		lexer.FALSE:   p.parseBoolLit,
		lexer.NONE:    p.parseNoneLit,
		lexer.PATHLIT: p.parsePathLit,
		lexer.DATELIT: p.parseDateLit,
		lexer.VARREF:  p.parseVarRef,
		lexer.LPAREN:  p.parseGroupedExpression,
		lexer.LBRACK:  p.parseListLit,
		lexer.LBRACE:  p.parseClassLit,
		lexer.NOT:     p.parseNotExpr,
		lexer.SLASH:   p.parseUnarySlash,
		lexer.IS:      p.parseIsPropertyPrefix,
		lexer.IF:      p.parseIfExpr,
		lexer.CASE:    p.parseCaseExpr,
		lexer.WITH:    p.parseWithExpr,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.OR:      p.parseBinaryOp,
		lexer.XOR:     p.parseBinaryOp,
		lexer.AND:     p.parseBinaryOp,
		lexer.EQ:      p.parseBinaryOp,
		lexer.EQ_EQ:   p.parseBinaryOp,
		lexer.NOT_EQ:  p.parseBinaryOp,
		lexer.LT_GT:   p.parseBinaryOp,
		lexer.LT:      p.parseBinaryOp,
		lexer.GT:      p.parseBinaryOp,
		lexer.LT_EQ:   p.parseBinaryOp,
		lexer.GT_EQ:   p.parseBinaryOp,
		lexer.MATCHES: p.parseBinaryOp,
		lexer.PIPE:    p.parseBinaryOp,
		lexer.CARET:   p.parseBinaryOp,
		lexer.AMP:     p.parseBinaryOp,
		lexer.PLUS:    p.parseBinaryOp,
		lexer.MINUS:   p.parseBinaryOp,
		lexer.ASTERISK: p.parseBinaryOp,
		lexer.SLASH:    p.parseBinaryOp,
		lexer.PERCENT:  p.parseBinaryOp,
		lexer.BETWEEN:  p.parseBetween,
		lexer.IS:       p.parseIsPredicate,
		lexer.AS:       p.parseCast,
		lexer.DOT:        p.parseMethodChain,
		lexer.OF:         p.parseMethodChain,
		lexer.COLONCOLON: p.parseFieldAccess,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Parse lexes and parses input as a single expression. Lexer errors
// and parser errors are both returned; either list being non-empty
// means the tree should not be trusted.
func Parse(input string) (ast.Expression, []*ParserError, []lexer.LexerError) {
	l := lexer.New(input)
	p := New(l)
	expr := p.parseExpression(LOWEST)
	if !p.peekTokenIs(lexer.EOF) {
		p.addError(fmt.Sprintf("unexpected trailing input: %s", p.peekToken.Type), ErrUnexpectedToken)
	}
	return expr, p.errors, l.Errors()
}

func (p *Parser) Errors() []*ParserError { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// expectPeek advances onto the peek token if it matches t, else records
// an error and leaves the cursor where it was.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	msg := fmt.Sprintf("expected %s, got %s instead", t, p.peekToken.Type)
	p.errors = append(p.errors, NewParserError(p.peekToken.Pos, p.peekToken.Length(), msg, ErrUnexpectedToken))
}

func (p *Parser) addError(msg, code string) {
	p.errors = append(p.errors, NewParserError(p.curToken.Pos, p.curToken.Length(), msg, code))
}

func (p *Parser) noPrefixParseFnError(t lexer.TokenType) {
	p.addError(fmt.Sprintf("no prefix parse function for %s found", t), ErrNoPrefixParse)
}

func (p *Parser) spanFrom(start lexer.Position) ast.Span {
	return ast.Span{Start: start, End: p.curToken.Pos}
}

// parseExpression is the Pratt core: one prefix parse, then climb the
// precedence table consuming infix operators bound tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefixFn, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.noPrefixParseFnError(p.curToken.Type)
		return ast.NewNoneLit(p.spanFrom(p.curToken.Pos))
	}
	left := prefixFn()

	for precedence < p.peekPrecedence() {
		infixFn, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infixFn(left)
	}
	return left
}

// --- literals ---

func (p *Parser) parseNumberLit() ast.Expression {
	start := p.curToken.Pos
	v, err := strconv.ParseUint(p.curToken.Literal, 0, 64)
	if err != nil {
		p.addError(fmt.Sprintf("invalid number literal %q", p.curToken.Literal), ErrInvalidExpression)
		v = 0
	}
	return ast.NewNumberLit(p.spanFrom(start), v)
}

func (p *Parser) parseStringLit() ast.Expression {
	return ast.NewStringLit(p.spanFrom(p.curToken.Pos), p.curToken.Literal)
}

func (p *Parser) parseBoolLit() ast.Expression {
	return ast.NewBoolLit(p.spanFrom(p.curToken.Pos), p.curToken.Type == lexer.TRUE)
}

func (p *Parser) parseNoneLit() ast.Expression {
	return ast.NewNoneLit(p.spanFrom(p.curToken.Pos))
}

func (p *Parser) parsePathLit() ast.Expression {
	return ast.NewPathLit(p.spanFrom(p.curToken.Pos), p.curToken.Literal)
}

func (p *Parser) parseDateLit() ast.Expression {
	return ast.NewDateLit(p.spanFrom(p.curToken.Pos), p.curToken.Literal)
}

func (p *Parser) parseVarRef() ast.Expression {
	return ast.NewVarRef(p.spanFrom(p.curToken.Pos), p.curToken.Literal)
}

var meNames = map[string]bool{"me": true, "this": true, "self": true}

// parseIdentifier resolves a bare identifier as a free function call
// (name followed directly by a paren group), the implicit-current-file
// alias (me/this/self), or a property-or-zero-arg-method shortcut that
// the evaluator resolves against the current file at run time.
func (p *Parser) parseIdentifier() ast.Expression {
	start := p.curToken.Pos
	name := p.curToken.Literal

	if meNames[name] && !p.peekTokenIs(lexer.LPAREN) {
		return ast.NewMe(p.spanFrom(start))
	}

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken() // cur = '('
		args := p.parseCallArgs()
		return ast.NewFuncCall(p.spanFrom(start), name, args)
	}
	return ast.NewProperty(p.spanFrom(start), nil, name)
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		p.addError("missing closing ')'", ErrMissingRParen)
	}
	return expr
}

func (p *Parser) parseListLit() ast.Expression {
	start := p.curToken.Pos
	var elems []ast.Expression
	if p.peekTokenIs(lexer.RBRACK) {
		p.nextToken()
		return ast.NewListLit(p.spanFrom(start), elems)
	}
	p.nextToken()
	elems = append(elems, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.RBRACK) {
		p.addError("missing closing ']'", ErrMissingRBracket)
	}
	return ast.NewListLit(p.spanFrom(start), elems)
}

func (p *Parser) parseClassLit() ast.Expression {
	start := p.curToken.Pos
	var fields []ast.ClassField
	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return ast.NewClassLit(p.spanFrom(start), fields)
	}
	p.nextToken()
	for {
		if !p.curTokenIs(lexer.FIELDKEY) {
			p.addError("expected ':key' in class literal", ErrMissingFieldKey)
			break
		}
		key := p.curToken.Literal
		p.nextToken()
		val := p.parseExpression(LOWEST)
		fields = append(fields, ast.ClassField{Key: key, Value: val})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RBRACE) {
		p.addError("missing closing '}'", ErrMissingRBrace)
	}
	return ast.NewClassLit(p.spanFrom(start), fields)
}

// --- unary / predicate prefixes ---

func (p *Parser) parseNotExpr() ast.Expression {
	start := p.curToken.Pos
	op := p.curToken.Type
	p.nextToken()
	operand := p.parseExpression(notOperand)
	return ast.NewUnaryOp(p.spanFrom(start), op, operand)
}

// parseUnarySlash handles the leading `/ "child"` shorthand for
// `me / "child"`.
func (p *Parser) parseUnarySlash() ast.Expression {
	start := p.curToken.Pos
	op := p.curToken.Type
	p.nextToken()
	operand := p.parseExpression(prefix)
	return ast.NewUnaryOp(p.spanFrom(start), op, operand)
}

// isAliasKind reads DIR, FILE, or the bareword "link" following IS/IS NOT,
// returning the canonical property name ("isdir", "isnotfile", ...).
func (p *Parser) isAliasKind(negate bool) (string, bool) {
	var kind string
	switch {
	case p.curTokenIs(lexer.DIR):
		kind = "dir"
	case p.curTokenIs(lexer.FILE):
		kind = "file"
	case p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "link":
		kind = "link"
	default:
		return "", false
	}
	if negate {
		return "isnot" + kind, true
	}
	return "is" + kind, true
}

// parseIsPropertyPrefix handles the bareword alias spelling of the
// is-dir/is-file/is-link path properties ("is dir", "is not file", ...)
// when IS opens a fresh (sub)expression rather than following an operand.
func (p *Parser) parseIsPropertyPrefix() ast.Expression {
	start := p.curToken.Pos
	p.nextToken()
	negate := false
	if p.curTokenIs(lexer.NOT) {
		negate = true
		p.nextToken()
	}
	name, ok := p.isAliasKind(negate)
	if !ok {
		p.addError("expected DIR, FILE or link after IS", ErrExpectedType)
		return ast.NewNoneLit(p.spanFrom(start))
	}
	return ast.NewProperty(p.spanFrom(start), nil, name)
}

// --- infix: binary ops, IS predicate, AS cast, BETWEEN ---

func (p *Parser) parseBinaryOp(left ast.Expression) ast.Expression {
	start := left.Span().Start
	op := p.curToken.Type
	prec := precedences[op]
	p.nextToken()
	right := p.parseExpression(prec)
	return ast.NewBinaryOp(p.spanFrom(start), op, left, right)
}

var isPredicateWords = map[lexer.TokenType]bool{
	lexer.TRUE: true, lexer.FALSE: true, lexer.SOME: true, lexer.NONE: true,
}

// parseIsPredicate handles `operand IS [NOT] TRUE|FALSE|SOME|NONE`; the
// bareword DIR/FILE/link alias form is handled separately by
// parseMethodChain and parseIsPropertyPrefix so it never reaches here
// with a receiver already on the stack.
func (p *Parser) parseIsPredicate(left ast.Expression) ast.Expression {
	start := left.Span().Start
	p.nextToken()
	negate := false
	if p.curTokenIs(lexer.NOT) {
		negate = true
		p.nextToken()
	}
	if !isPredicateWords[p.curToken.Type] {
		p.addError("expected TRUE, FALSE, SOME or NONE after IS", ErrExpectedType)
		return ast.NewIsPredicate(p.spanFrom(start), left, negate, lexer.NONE)
	}
	want := p.curToken.Type
	return ast.NewIsPredicate(p.spanFrom(start), left, negate, want)
}

var castTypes = map[lexer.TokenType]bool{
	lexer.NUMBERKW: true, lexer.NUM: true, lexer.INT: true, lexer.INTEGER: true,
	lexer.STRINGKW: true, lexer.STR: true, lexer.TEXT: true,
	lexer.BOOL: true, lexer.BOOLEAN: true,
	lexer.DATE: true, lexer.TIME: true, lexer.TIMESTAMP: true,
	lexer.PATH: true, lexer.FILE: true, lexer.DIR: true,
}

func (p *Parser) parseCast(left ast.Expression) ast.Expression {
	start := left.Span().Start
	p.nextToken()
	if !castTypes[p.curToken.Type] {
		p.addError(fmt.Sprintf("expected a type name after AS, got %s", p.curToken.Type), ErrExpectedType)
		return left
	}
	return ast.NewCast(p.spanFrom(start), left, p.curToken.Type)
}

// parseBetween handles `operand BETWEEN lo AND hi`. The lower bound is
// parsed at andPrec so a bare AND always closes it; parenthesize to
// embed a conjunction in the lower bound.
func (p *Parser) parseBetween(left ast.Expression) ast.Expression {
	start := left.Span().Start
	p.nextToken()
	low := p.parseExpression(andPrec)
	if !p.expectPeek(lexer.AND) {
		p.addError("expected AND in BETWEEN expression", ErrMissingAnd)
		return ast.NewBetween(p.spanFrom(start), left, low, low)
	}
	p.nextToken()
	high := p.parseExpression(equality)
	return ast.NewBetween(p.spanFrom(start), left, low, high)
}

// --- postfix: method chain, field access ---

// parseMethodChain handles receiver.Name(args...) / receiver OF Name(...)
// and their paren-free zero-arg form, plus the "is dir"/"is not file"
// bareword alias when it appears chained off a receiver.
func (p *Parser) parseMethodChain(receiver ast.Expression) ast.Expression {
	start := receiver.Span().Start
	p.nextToken() // move onto the member name

	if p.curTokenIs(lexer.IS) {
		p.nextToken()
		negate := false
		if p.curTokenIs(lexer.NOT) {
			negate = true
			p.nextToken()
		}
		name, ok := p.isAliasKind(negate)
		if !ok {
			p.addError("expected DIR, FILE or link after IS", ErrExpectedType)
			return receiver
		}
		return ast.NewProperty(p.spanFrom(start), receiver, name)
	}

	if !p.curTokenIs(lexer.IDENT) {
		p.addError(fmt.Sprintf("expected a method or property name, got %s", p.curToken.Type), ErrExpectedIdent)
		return receiver
	}
	name := p.curToken.Literal

	var args []ast.Expression
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args = p.parseCallArgs()
	}
	return ast.NewMethodCall(p.spanFrom(start), receiver, name, args)
}

func (p *Parser) parseFieldAccess(receiver ast.Expression) ast.Expression {
	start := receiver.Span().Start
	if !p.expectPeek(lexer.IDENT) {
		p.addError("expected a field name after '::'", ErrExpectedIdent)
		return receiver
	}
	return ast.NewFieldAccess(p.spanFrom(start), receiver, p.curToken.Literal)
}

// parseCallArgs parses a parenthesized, comma-separated argument list.
// cur must be LPAREN on entry; cur is RPAREN on return.
func (p *Parser) parseCallArgs() []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseCallArg())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseCallArg())
	}
	if !p.expectPeek(lexer.RPAREN) {
		p.addError("missing closing ')' in argument list", ErrMissingRParen)
	}
	return args
}

// parseCallArg parses one call argument, recognizing the lambda form
// `$name body` when a VARREF isn't immediately followed by the
// argument-list terminator (in which case it's a bare variable reference).
func (p *Parser) parseCallArg() ast.Expression {
	if p.curTokenIs(lexer.VARREF) && !p.peekTokenIs(lexer.COMMA) && !p.peekTokenIs(lexer.RPAREN) {
		start := p.curToken.Pos
		name := p.curToken.Literal
		p.nextToken()
		body := p.parseExpression(LOWEST)
		return ast.NewLambda(p.spanFrom(start), name, body)
	}
	return p.parseExpression(LOWEST)
}

// --- WITH / CASE / IF ---

func (p *Parser) parseWithExpr() ast.Expression {
	start := p.curToken.Pos
	var bindings []ast.WithBinding
	p.nextToken() // move to first $v

	for {
		if !p.curTokenIs(lexer.VARREF) {
			p.addError("expected '$name' in WITH binding", ErrMissingVarRef)
			break
		}
		name := p.curToken.Literal
		p.nextToken()
		if p.curTokenIs(lexer.AS) {
			p.nextToken()
		}
		expr := p.parseExpression(LOWEST)
		bindings = append(bindings, ast.WithBinding{Name: name, Expr: expr})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(lexer.DO) {
		p.addError("missing DO in WITH expression", ErrMissingDo)
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.END) {
		p.addError("missing END closing WITH expression", ErrMissingEnd)
	}
	return ast.NewWithExpr(p.spanFrom(start), bindings, body)
}

func (p *Parser) parseCaseExpr() ast.Expression {
	start := p.curToken.Pos
	var branches []ast.CaseBranch

	for p.peekTokenIs(lexer.WHEN) {
		p.nextToken() // cur = WHEN
		p.nextToken() // move to condition
		cond := p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.THEN) {
			p.addError("missing THEN in CASE branch", ErrMissingThen)
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		branches = append(branches, ast.CaseBranch{Cond: cond, Value: val})
	}
	if len(branches) == 0 {
		p.addError("expected at least one WHEN branch in CASE", ErrExpectedWhenOrElse)
	}

	var elseExpr ast.Expression
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		elseExpr = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.END) {
		p.addError("missing END closing CASE expression", ErrMissingEnd)
	}
	return ast.NewCaseExpr(p.spanFrom(start), branches, elseExpr)
}

func (p *Parser) parseIfExpr() ast.Expression {
	start := p.curToken.Pos
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.THEN) {
		p.addError("missing THEN in IF expression", ErrMissingThen)
	}
	p.nextToken()
	thenExpr := p.parseExpression(LOWEST)

	var elseExpr ast.Expression
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		elseExpr = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.END) {
		p.addError("missing END closing IF expression", ErrMissingEnd)
	}
	return ast.NewIfExpr(p.spanFrom(start), cond, thenExpr, elseExpr)
}
