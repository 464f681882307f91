// Package builtin provides ready-made tools: arithmetic, weather lookup,
// clock, outbound email, and read-only SQL.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/youssefsiam38/agentctx/tool"
)

const allowedExprChars = "0123456789+-*/%^.() "

// Calculator evaluates arithmetic expressions. Supported operators are
// + - * / % and exponentiation via ** or ^, with parentheses and unary
// minus. No variables, no functions.
type Calculator struct{}

// NewCalculator creates a calculator tool
func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Name() string { return "calculate" }

func (c *Calculator) Description() string {
	return "Evaluate an arithmetic expression. Supports +, -, *, /, %, ** (power), and parentheses."
}

func (c *Calculator) InputSchema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.Property{
			"expression": {
				Type:        "string",
				Description: "The arithmetic expression to evaluate, e.g. \"(3 + 5) * 10\"",
				MinLength:   tool.IntPtr(1),
				MaxLength:   tool.IntPtr(500),
			},
		},
		Required: []string{"expression"},
	}
}

func (c *Calculator) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		Expression string `json:"expression"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	result, err := Evaluate(params.Expression)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(map[string]any{
		"expression": params.Expression,
		"result":     result,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Evaluate parses and evaluates an arithmetic expression.
func Evaluate(expression string) (float64, error) {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return 0, fmt.Errorf("empty expression")
	}

	for _, r := range expr {
		if !strings.ContainsRune(allowedExprChars, r) {
			return 0, fmt.Errorf("invalid character %q in expression", r)
		}
	}

	p := &exprParser{input: expr}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, fmt.Errorf("expression result is not a finite number")
	}
	return result, nil
}

// exprParser is a recursive-descent parser over the expression. Precedence
// low to high: additive, multiplicative, unary, power (right-associative).
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.peek() == '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case p.peek() == '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.peek() == '*' && !p.peekAt(1, '*'):
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.peek() == '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case p.peek() == '%':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.peek() == '^' {
		p.pos++
	} else if p.peek() == '*' && p.peekAt(1, '*') {
		p.pos += 2
	} else {
		return base, nil
	}

	// Right-associative: 2**3**2 == 2**(3**2).
	exp, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at position %d", p.pos)
	}

	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *exprParser) peekAt(offset int, c byte) bool {
	if p.pos+offset < len(p.input) {
		return p.input[p.pos+offset] == c
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
