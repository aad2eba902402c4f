// Package sql implements the query intelligence core: classification,
// anonymization, parameter substitution, and risk analysis over raw SQL text.
// Every exported function in this package accepts arbitrary input, including
// garbage, and degrades to a safe default instead of returning an error.
package sql

import (
	"fmt"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"

	"github.com/querylens/querylens-engine/pkg/models"
)

// parse runs the TiDB parser over a single statement. This is the
// best-effort syntax-aware pass: callers treat any error as "fall back to
// heuristics", never as a failure of their own contract.
//
// A fresh parser.Parser is allocated per call; the TiDB parser carries
// internal state and is not safe for concurrent reuse.
func parse(sqlText string) (ast.StmtNode, error) {
	p := parser.New()
	stmts, _, err := p.Parse(sqlText, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("no statement found")
	}
	return stmts[0], nil
}

// classifyNode maps a parsed statement to a QueryType. Statements outside
// the four DML types (DDL, SHOW, SET, ...) classify as unknown.
func classifyNode(node ast.StmtNode) models.QueryType {
	switch node.(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return models.QueryTypeSelect
	case *ast.InsertStmt:
		return models.QueryTypeInsert
	case *ast.UpdateStmt:
		return models.QueryTypeUpdate
	case *ast.DeleteStmt:
		return models.QueryTypeDelete
	default:
		return models.QueryTypeUnknown
	}
}
