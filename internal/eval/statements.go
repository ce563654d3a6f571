package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/souzamonteiro/guash/internal/container"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// truthyCondition evaluates a loop/if condition Value, rejecting anything
// that isn't Integer or Real (spec.md §4.5 conditions are boolean-in-the-
// numeric-sense, matching the language's 0/1 convention).
func truthyCondition(v value.Value) (bool, error) {
	if v.Kind != value.KindInteger && v.Kind != value.KindReal {
		return false, fmt.Errorf("condition must be integer or real, got %s", v.Kind)
	}
	return value.IsTruthy(v), nil
}

func isStatementEnd(k token.Kind) bool {
	switch k {
	case token.Separator, token.End, token.BraceClose:
		return true
	default:
		return false
	}
}

// evalIf implements `if (cond) { A } [elseif (c) { B }...] [else { Z }]`:
// every branch header/body is captured as text up front (so later branches
// are "structurally consumed and skipped" per spec.md §4.5), and only the
// first truthy branch is evaluated.
func (e *Evaluator) evalIf() (status.Status, value.Value, error) {
	e.next() // consume 'if'

	type branch struct{ cond, body string }
	var branches []branch

	condSrc, err := e.expectGroup(token.ParenOpen, "if condition")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	bodySrc, err := e.expectGroup(token.BraceOpen, "if body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	branches = append(branches, branch{condSrc, bodySrc})

	for e.cur.Kind == token.ElseIf {
		e.next()
		c, err := e.expectGroup(token.ParenOpen, "elseif condition")
		if err != nil {
			return status.UnexpectedToken, value.Unknown(), err
		}
		b, err := e.expectGroup(token.BraceOpen, "elseif body")
		if err != nil {
			return status.UnexpectedToken, value.Unknown(), err
		}
		branches = append(branches, branch{c, b})
	}

	var elseBody string
	hasElse := false
	if e.cur.Kind == token.Else {
		e.next()
		b, err := e.expectGroup(token.BraceOpen, "else body")
		if err != nil {
			return status.UnexpectedToken, value.Unknown(), err
		}
		elseBody = b
		hasElse = true
	}

	for _, br := range branches {
		st, cv, err := e.Run(br.cond)
		if err != nil || st != status.OK {
			return st, cv, err
		}
		truthy, terr := truthyCondition(cv)
		if terr != nil {
			return status.IllegalOperand, value.Unknown(), terr
		}
		if !truthy {
			continue
		}
		return e.Run(br.body)
	}
	if hasElse {
		return e.Run(elseBody)
	}
	return status.OK, value.Unknown(), nil
}

// loopSignal interprets the status of one loop-body iteration: stop
// reports whether the loop should end now, and rst/rv/rerr carry the
// status/value/err to return in that case (spec.md §4.5 "Loop bodies
// return via signals").
func loopSignal(st status.Status, v value.Value, err error) (stop bool, rst status.Status, rv value.Value, rerr error) {
	switch {
	case st == status.Break:
		return true, status.OK, value.Unknown(), nil
	case st == status.Return || st == status.Exit:
		return true, st, v, err
	case st.IsError():
		return true, st, v, err
	default:
		return false, status.OK, value.Unknown(), nil
	}
}

// evalWhile implements `while (cond) { body }`, a pre-test loop.
func (e *Evaluator) evalWhile() (status.Status, value.Value, error) {
	e.next()
	condSrc, err := e.expectGroup(token.ParenOpen, "while condition")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	bodySrc, err := e.expectGroup(token.BraceOpen, "while body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	for {
		st, cv, err := e.Run(condSrc)
		if err != nil || st != status.OK {
			return st, cv, err
		}
		truthy, terr := truthyCondition(cv)
		if terr != nil {
			return status.IllegalOperand, value.Unknown(), terr
		}
		if !truthy {
			return status.OK, value.Unknown(), nil
		}
		st, v, err := e.Run(bodySrc)
		if stop, rst, rv, rerr := loopSignal(st, v, err); stop {
			return rst, rv, rerr
		}
	}
}

// evalDoWhile implements `do { body } while (cond)`, a post-test loop.
func (e *Evaluator) evalDoWhile() (status.Status, value.Value, error) {
	e.next()
	bodySrc, err := e.expectGroup(token.BraceOpen, "do body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	if e.cur.Kind != token.While {
		return status.UnexpectedToken, value.Unknown(), e.errorf("expected while after do block")
	}
	e.next()
	condSrc, err := e.expectGroup(token.ParenOpen, "do-while condition")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	for {
		st, v, err := e.Run(bodySrc)
		if stop, rst, rv, rerr := loopSignal(st, v, err); stop {
			return rst, rv, rerr
		}
		st, cv, err := e.Run(condSrc)
		if err != nil || st != status.OK {
			return st, cv, err
		}
		truthy, terr := truthyCondition(cv)
		if terr != nil {
			return status.IllegalOperand, value.Unknown(), terr
		}
		if !truthy {
			return status.OK, value.Unknown(), nil
		}
	}
}

// evalFor implements `for (init; cond; step) { body }`.
func (e *Evaluator) evalFor() (status.Status, value.Value, error) {
	e.next()
	headerSrc, err := e.expectGroup(token.ParenOpen, "for header")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	bodySrc, err := e.expectGroup(token.BraceOpen, "for body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	parts := splitTopLevel(headerSrc, ';')
	if len(parts) != 3 {
		return status.UnexpectedToken, value.Unknown(), e.errorf("for header requires init; cond; step")
	}
	initSrc, condSrc, stepSrc := parts[0], parts[1], parts[2]

	if initSrc != "" {
		st, v, err := e.Run(initSrc)
		if err != nil || st != status.OK {
			return st, v, err
		}
	}
	for {
		if condSrc != "" {
			st, cv, err := e.Run(condSrc)
			if err != nil || st != status.OK {
				return st, cv, err
			}
			truthy, terr := truthyCondition(cv)
			if terr != nil {
				return status.IllegalOperand, value.Unknown(), terr
			}
			if !truthy {
				return status.OK, value.Unknown(), nil
			}
		}
		st, v, err := e.Run(bodySrc)
		if stop, rst, rv, rerr := loopSignal(st, v, err); stop {
			return rst, rv, rerr
		}
		if stepSrc != "" {
			st, v, err := e.Run(stepSrc)
			if err != nil || st != status.OK {
				return st, v, err
			}
		}
	}
}

// evalForEach implements `foreach (array; keyVar; valueVar) { body }`,
// binding keyVar/valueVar at Local scope each iteration in insertion order
// (spec.md §4.5).
func (e *Evaluator) evalForEach() (status.Status, value.Value, error) {
	e.next()
	headerSrc, err := e.expectGroup(token.ParenOpen, "foreach header")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	bodySrc, err := e.expectGroup(token.BraceOpen, "foreach body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	parts := splitTopLevel(headerSrc, ';')
	if len(parts) != 3 {
		return status.UnexpectedToken, value.Unknown(), e.errorf("foreach header requires array; keyVar; valueVar")
	}
	arrSrc := parts[0]
	keyVarName := strings.TrimSpace(parts[1])
	valVarName := strings.TrimSpace(parts[2])

	st, av, err := e.Run(arrSrc)
	if err != nil || st != status.OK {
		return st, av, err
	}
	if av.Kind != value.KindArray {
		return status.IllegalOperand, value.Unknown(), e.errorf("foreach requires an array")
	}

	for el := av.Arr.Head; el != nil; el = el.Next {
		e.ns.Set(keyVarName, el.Key, namespace.Local)
		e.ns.Set(valVarName, el.Val, namespace.Local)
		st, v, err := e.Run(bodySrc)
		if stop, rst, rv, rerr := loopSignal(st, v, err); stop {
			return rst, rv, rerr
		}
	}
	return status.OK, value.Unknown(), nil
}

// evalTry implements `try { A } [catch { B }]` (spec.md §4.5): Return/Exit
// (and loop-control signals meant for an enclosing loop) pass through
// untouched; any error status runs the catch block (if present) after
// binding GUA_RESULT/GUA_ERROR; otherwise A's own result is bound.
func (e *Evaluator) evalTry() (status.Status, value.Value, error) {
	e.next()
	bodySrc, err := e.expectGroup(token.BraceOpen, "try body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	var catchSrc string
	hasCatch := false
	if e.cur.Kind == token.Catch {
		e.next()
		c, err := e.expectGroup(token.BraceOpen, "catch body")
		if err != nil {
			return status.UnexpectedToken, value.Unknown(), err
		}
		catchSrc = c
		hasCatch = true
	}

	st, v, err := e.Run(bodySrc)
	if st.IsSignal() {
		return st, v, err
	}
	if st.IsError() {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		e.ns.Set("GUA_ERROR", value.Str(msg), namespace.Global)
		e.ns.Set("GUA_RESULT", value.Unknown(), namespace.Global)
		if hasCatch {
			return e.Run(catchSrc)
		}
		return status.OK, value.Unknown(), nil
	}
	e.ns.Set("GUA_ERROR", value.Str(""), namespace.Global)
	e.ns.Set("GUA_RESULT", v, namespace.Global)
	return status.OK, v, nil
}

// compareDesired implements the test/catch comparison rule: exact equality
// when tolerance is absent, per-type approximate equality (matrix tolerance
// or numeric absolute difference) when present.
func compareDesired(got, desired value.Value, approx bool, tolerance float64) bool {
	if !approx {
		return valuesEqual(got, desired)
	}
	if got.Kind == value.KindMatrix && desired.Kind == value.KindMatrix {
		return container.IsMatrixApproximatelyEqual(got.Mat, desired.Mat, tolerance)
	}
	gf, gok := toFloat(got)
	df, dok := toFloat(desired)
	if gok && dok {
		return math.Abs(gf-df) <= tolerance
	}
	return valuesEqual(got, desired)
}

// evalTest implements `test (tries[; desired[; tolerance]]) { body }
// [catch { B }]` (spec.md §4.5): runs body up to tries times, timing
// wall-clock via the injected Clock, and binds the GUA_* reporter globals.
func (e *Evaluator) evalTest() (status.Status, value.Value, error) {
	e.next()
	headerSrc, err := e.expectGroup(token.ParenOpen, "test header")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	bodySrc, err := e.expectGroup(token.BraceOpen, "test body")
	if err != nil {
		return status.UnexpectedToken, value.Unknown(), err
	}
	var catchSrc string
	hasCatch := false
	if e.cur.Kind == token.Catch {
		e.next()
		c, err := e.expectGroup(token.BraceOpen, "catch body")
		if err != nil {
			return status.UnexpectedToken, value.Unknown(), err
		}
		catchSrc = c
		hasCatch = true
	}

	parts := splitTopLevel(headerSrc, ';')
	if len(parts) < 1 || len(parts) > 3 {
		return status.UnexpectedToken, value.Unknown(), e.errorf("test header requires tries[; desired[; tolerance]]")
	}

	st, triesV, err := e.Run(parts[0])
	if err != nil || st != status.OK {
		return st, triesV, err
	}
	if triesV.Kind != value.KindInteger {
		return status.IllegalOperand, value.Unknown(), e.errorf("test tries must be an integer")
	}
	tries := triesV.Int

	hasDesired := len(parts) >= 2 && strings.TrimSpace(parts[1]) != ""
	var desired value.Value
	if hasDesired {
		st, dv, err := e.Run(parts[1])
		if err != nil || st != status.OK {
			return st, dv, err
		}
		desired = dv
	}
	hasTolerance := len(parts) == 3 && strings.TrimSpace(parts[2]) != ""
	var tolerance float64
	if hasTolerance {
		st, tv, err := e.Run(parts[2])
		if err != nil || st != status.OK {
			return st, tv, err
		}
		tf, ok := toFloat(tv)
		if !ok {
			return status.IllegalOperand, value.Unknown(), e.errorf("test tolerance must be numeric")
		}
		tolerance = tf
	}

	start := e.clock.NowSeconds()
	var last value.Value
	var sum, sumSq float64
	var count int64
	failed := false
	var failErr error

	for i := int64(0); i < tries; i++ {
		st, v, err := e.Run(bodySrc)
		if st.IsSignal() && st != status.OK {
			return st, v, err
		}
		if st.IsError() {
			failed = true
			failErr = err
			break
		}
		if hasDesired && !compareDesired(v, desired, hasTolerance, tolerance) {
			failed = true
			failErr = e.errorf("test result did not match desired value")
			break
		}
		last = v
		if f, ok := toFloat(v); ok {
			sum += f
			sumSq += f * f
		}
		count++
	}
	elapsed := e.clock.NowSeconds() - start

	avg, dev := 0.0, 0.0
	if count > 0 {
		avg = sum / float64(count)
		dev = math.Sqrt(sumSq/float64(count) - avg*avg)
	}
	e.ns.Set("GUA_TRIES", value.Int(count), namespace.Global)
	e.ns.Set("GUA_TIME", value.RealV(elapsed), namespace.Global)
	e.ns.Set("GUA_AVG", value.RealV(avg), namespace.Global)
	e.ns.Set("GUA_DEVIATION", value.RealV(dev), namespace.Global)

	if failed {
		msg := ""
		if failErr != nil {
			msg = failErr.Error()
		}
		e.ns.Set("GUA_ERROR", value.Str(msg), namespace.Global)
		e.ns.Set("GUA_RESULT", value.Unknown(), namespace.Global)
		if hasCatch {
			return e.Run(catchSrc)
		}
		return status.OK, value.Unknown(), nil
	}

	e.ns.Set("GUA_ERROR", value.Str(""), namespace.Global)
	e.ns.Set("GUA_RESULT", last, namespace.Global)
	return status.OK, last, nil
}

// evalBreak, evalContinue, evalReturn, and evalExit implement the
// structured-control-flow statements of spec.md §4.5. They accept an
// optional `(expr)` call-style operand in addition to the bareword form
// shown in the worked examples (`return 1`), since both are "built-in
// functions" returning the corresponding status signal.
func (e *Evaluator) evalBreak() (status.Status, value.Value, error) {
	e.next()
	if e.cur.Kind == token.ParenOpen {
		e.next()
	}
	return status.Break, value.Unknown(), nil
}

func (e *Evaluator) evalContinue() (status.Status, value.Value, error) {
	e.next()
	if e.cur.Kind == token.ParenOpen {
		e.next()
	}
	return status.Continue, value.Unknown(), nil
}

func (e *Evaluator) evalReturn() (status.Status, value.Value, error) {
	e.next()
	if e.cur.Kind == token.ParenOpen {
		inner := e.cur.Lexeme
		e.next()
		st, v, err := e.Run(inner)
		if err != nil || st != status.OK {
			return st, v, err
		}
		return status.Return, v, nil
	}
	if isStatementEnd(e.cur.Kind) {
		return status.Return, value.Unknown(), nil
	}
	st, v, err := e.parseLogicOr()
	if err != nil || st != status.OK {
		return st, v, err
	}
	return status.Return, v, nil
}

func (e *Evaluator) evalExit() (status.Status, value.Value, error) {
	e.next()
	if e.cur.Kind == token.ParenOpen {
		inner := e.cur.Lexeme
		e.next()
		st, v, err := e.Run(inner)
		if err != nil || st != status.OK {
			return st, v, err
		}
		return status.Exit, v, nil
	}
	if isStatementEnd(e.cur.Kind) {
		return status.Exit, value.Int(0), nil
	}
	st, v, err := e.parseLogicOr()
	if err != nil || st != status.OK {
		return st, v, err
	}
	return status.Exit, v, nil
}
