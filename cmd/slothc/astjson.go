// The driver is a thin stub: parsing real Sloth source is an external
// collaborator out of scope for the compiler core (spec §1). This file
// defines the minimal JSON encoding the driver accepts in its place - a
// direct transcription of package ast's shapes - so the pipeline wired up
// in main.go has something concrete to run against.
package main

import (
	"encoding/json"
	"fmt"

	"sloth/src/ast"
)

type exprJSON struct {
	Kind string `json:"kind"`

	// Number
	Value float64 `json:"value,omitempty"`

	// Variable, Application
	Name string `json:"name,omitempty"`

	// Operation
	Operator string      `json:"operator,omitempty"`
	LHS      *exprJSON   `json:"lhs,omitempty"`
	RHS      *exprJSON   `json:"rhs,omitempty"`
	Args     []*exprJSON `json:"args,omitempty"`

	// LetValues / LetFunctions
	Defs []defJSON `json:"defs,omitempty"`
	Body *exprJSON `json:"body,omitempty"`
}

type defJSON struct {
	Name      string    `json:"name"`
	Arguments []string  `json:"arguments,omitempty"`
	IsFunc    bool      `json:"isFunc,omitempty"`
	Body      *exprJSON `json:"body"`
}

type definitionJSON struct {
	Name      string    `json:"name"`
	Arguments []string  `json:"arguments,omitempty"`
	IsFunc    bool      `json:"isFunc"`
	Body      *exprJSON `json:"body"`
}

type moduleJSON struct {
	Definitions []definitionJSON `json:"definitions"`
}

func decodeModule(data []byte) (*ast.Module, error) {
	var mj moduleJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, fmt.Errorf("decoding module: %w", err)
	}

	defs := make([]ast.Definition, len(mj.Definitions))
	for i, d := range mj.Definitions {
		body, err := decodeExpr(d.Body)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", d.Name, err)
		}
		if d.IsFunc {
			defs[i] = &ast.FunctionDefinition{Name: d.Name, Arguments: d.Arguments, Body: body}
		} else {
			defs[i] = &ast.VariableDefinition{Name: d.Name, Body: body}
		}
	}
	return &ast.Module{Definitions: defs}, nil
}

func decodeExpr(e *exprJSON) (ast.Expression, error) {
	if e == nil {
		return nil, fmt.Errorf("missing expression")
	}
	switch e.Kind {
	case "number":
		return &ast.Number{Value: e.Value}, nil
	case "variable":
		return &ast.Variable{Name: e.Name}, nil
	case "operation":
		lhs, err := decodeExpr(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(e.RHS)
		if err != nil {
			return nil, err
		}
		op, err := decodeOperator(e.Operator)
		if err != nil {
			return nil, err
		}
		return &ast.Operation{Operator: op, LHS: lhs, RHS: rhs}, nil
	case "application":
		args := make([]ast.Expression, len(e.Args))
		for i, a := range e.Args {
			ae, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		return &ast.Application{FunctionName: e.Name, Args: args}, nil
	case "let":
		if len(e.Defs) == 0 {
			return nil, fmt.Errorf("let with no definitions")
		}
		body, err := decodeExpr(e.Body)
		if err != nil {
			return nil, err
		}
		if e.Defs[0].IsFunc {
			fns := make([]ast.FunctionDef, len(e.Defs))
			for i, d := range e.Defs {
				db, err := decodeExpr(d.Body)
				if err != nil {
					return nil, err
				}
				fns[i] = ast.FunctionDef{Name: d.Name, Arguments: d.Arguments, Body: db}
			}
			return &ast.LetFunctions{Defs: fns, Body: body}, nil
		}
		vals := make([]ast.ValueDef, len(e.Defs))
		for i, d := range e.Defs {
			db, err := decodeExpr(d.Body)
			if err != nil {
				return nil, err
			}
			vals[i] = ast.ValueDef{Name: d.Name, Body: db}
		}
		return &ast.LetValues{Defs: vals, Body: body}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", e.Kind)
	}
}

func decodeOperator(s string) (ast.Operator, error) {
	switch s {
	case "+":
		return ast.Add, nil
	case "-":
		return ast.Sub, nil
	case "*":
		return ast.Mul, nil
	case "/":
		return ast.Div, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}
