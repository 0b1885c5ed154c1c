package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// EnvelopeCheckAnalyzer reports net/http.Error calls in packages named
// handlers. Handlers answer with JSON envelopes only.
var EnvelopeCheckAnalyzer = &analysis.Analyzer{
	Name:     "envelopecheck",
	Doc:      "check that handlers do not answer with plain-text http.Error",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      runEnvelopeCheck,
}

func runEnvelopeCheck(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "handlers" {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil {
			return
		}
		if fn.Pkg().Path() == "net/http" && fn.Name() == "Error" {
			pass.Reportf(call.Pos(), "envelopecheck: handlers must answer with a JSON envelope, not http.Error")
		}
	})
	return nil, nil
}
