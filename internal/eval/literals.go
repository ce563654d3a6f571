package eval

import (
	"fmt"

	"github.com/souzamonteiro/guash/internal/container"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/value"
)

// parseArrayLiteral evaluates the interior of a `{v1,v2,...}` array
// literal (spec.md §6 "Array literal"). Each element may instead be given
// as `key=value` (spec.md §8's `{"x"=1, "y"=2}` scenario), splitting on the
// element's own top-level `=` exactly as a formal-parameter default does;
// elements without a `key=` prefix fall back to sequential 0..n-1 keys,
// continuing the count across any interleaved keyed elements.
func (e *Evaluator) parseArrayLiteral(inner string) (*value.Array, error) {
	arr := &value.Array{}
	parts := splitTopLevel(inner, ',')
	index := int64(0)
	for i, part := range parts {
		if part == "" {
			continue
		}
		keySrc, valSrc, hasKey := splitFormal(part)
		key := value.Int(index)
		valExpr := part
		if hasKey {
			st, kv, err := e.Run(keySrc)
			if err != nil {
				return nil, err
			}
			if st != status.OK {
				return nil, fmt.Errorf("non-Ok status evaluating array literal key %d", i)
			}
			key = kv
			valExpr = valSrc
		}
		st, v, err := e.Run(valExpr)
		if err != nil {
			return nil, err
		}
		if st != status.OK {
			return nil, fmt.Errorf("non-Ok status evaluating array literal element %d", i)
		}
		if verr := container.ValidateElementValue(v); verr != nil {
			return nil, verr
		}
		container.ArraySet(arr, key, v)
		if !hasKey {
			index++
		}
	}
	return arr, nil
}

// parseMatrixLiteral evaluates the interior of a `[v11,v12;v21,v22]`
// matrix literal: rows separated by ';', columns by ',' (spec.md §6
// "Matrix literal"), equivalent to calling matrix2D(rows, cols, values...).
func parseMatrixLiteral(e *Evaluator, inner string) (*value.Matrix, error) {
	rows := splitTopLevel(inner, ';')
	var cells []value.Value
	cols := -1
	for _, row := range rows {
		rowParts := splitTopLevel(row, ',')
		if cols == -1 {
			cols = len(rowParts)
		} else if len(rowParts) != cols {
			return nil, fmt.Errorf("illegal operand: matrix literal rows have differing column counts")
		}
		for _, part := range rowParts {
			st, v, err := e.Run(part)
			if err != nil {
				return nil, err
			}
			if st != status.OK {
				return nil, fmt.Errorf("non-Ok status evaluating matrix literal cell")
			}
			cells = append(cells, v)
		}
	}
	if cols <= 0 {
		cols = 0
	}
	return &value.Matrix{Dims: []int{len(rows), cols}, Cells: cells}, nil
}
