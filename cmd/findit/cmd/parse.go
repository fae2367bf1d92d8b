package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yift/findit/internal/ast"
	"github.com/yift/findit/internal/diag"
	"github.com/yift/findit/internal/eval"
)

var parseJSONPath string

var parseCmd = &cobra.Command{
	Use:   "parse <expr>",
	Short: "Parse a findit expression and display its AST",
	Long: `Parse a findit expression and display the parsed expression tree, for
debugging the grammar without running an evaluation.`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseJSONPath, "json-query", "", "gjson path to extract from the dumped AST (implies a JSON dump)")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	expr, perr := eval.Compile(args[0])
	if perr != nil {
		return fmt.Errorf("%s", diag.FormatParse(perr, false))
	}

	if parseJSONPath != "" {
		doc := astToJSON(expr)
		fmt.Println(queryJSON(doc, parseJSONPath))
		return nil
	}
	dumpNode(expr, 0)
	return nil
}

func dumpNode(node ast.Expression, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}
	switch n := node.(type) {
	case *ast.NumberLit:
		fmt.Printf("%sNumberLit %d\n", pad, n.Value)
	case *ast.StringLit:
		fmt.Printf("%sStringLit %q\n", pad, n.Value)
	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v\n", pad, n.Value)
	case *ast.NoneLit:
		fmt.Printf("%sNoneLit\n", pad)
	case *ast.PathLit:
		fmt.Printf("%sPathLit %q\n", pad, n.Value)
	case *ast.DateLit:
		fmt.Printf("%sDateLit %q\n", pad, n.Raw)
	case *ast.ListLit:
		fmt.Printf("%sListLit (%d elements)\n", pad, len(n.Elements))
		for _, e := range n.Elements {
			dumpNode(e, indent+1)
		}
	case *ast.ClassLit:
		fmt.Printf("%sClassLit (%d fields)\n", pad, len(n.Fields))
		for _, f := range n.Fields {
			fmt.Printf("%s  :%s\n", pad, f.Key)
			dumpNode(f.Value, indent+2)
		}
	case *ast.Me:
		fmt.Printf("%sMe\n", pad)
	case *ast.VarRef:
		fmt.Printf("%sVarRef $%s\n", pad, n.Name)
	case *ast.Property:
		fmt.Printf("%sProperty .%s\n", pad, n.Name)
		if n.Receiver != nil {
			dumpNode(n.Receiver, indent+1)
		}
	case *ast.MethodCall:
		fmt.Printf("%sMethodCall .%s (%d args)\n", pad, n.Name, len(n.Args))
		if n.Receiver != nil {
			dumpNode(n.Receiver, indent+1)
		}
		for _, a := range n.Args {
			dumpNode(a, indent+1)
		}
	case *ast.FuncCall:
		fmt.Printf("%sFuncCall %s (%d args)\n", pad, n.Name, len(n.Args))
		for _, a := range n.Args {
			dumpNode(a, indent+1)
		}
	case *ast.FieldAccess:
		fmt.Printf("%sFieldAccess ::%s\n", pad, n.Name)
		dumpNode(n.Receiver, indent+1)
	case *ast.BinaryOp:
		fmt.Printf("%sBinaryOp %s\n", pad, n.Op)
		dumpNode(n.Left, indent+1)
		dumpNode(n.Right, indent+1)
	case *ast.UnaryOp:
		fmt.Printf("%sUnaryOp %s\n", pad, n.Op)
		dumpNode(n.Operand, indent+1)
	case *ast.IsPredicate:
		fmt.Printf("%sIsPredicate negate=%v want=%s\n", pad, n.Negate, n.Want)
		dumpNode(n.Operand, indent+1)
	case *ast.Cast:
		fmt.Printf("%sCast AS %s\n", pad, n.TargetTy)
		dumpNode(n.Operand, indent+1)
	case *ast.Between:
		fmt.Printf("%sBetween\n", pad)
		dumpNode(n.Operand, indent+1)
		dumpNode(n.Low, indent+1)
		dumpNode(n.High, indent+1)
	case *ast.IfExpr:
		fmt.Printf("%sIfExpr\n", pad)
		dumpNode(n.Cond, indent+1)
		dumpNode(n.Then, indent+1)
		if n.Else != nil {
			dumpNode(n.Else, indent+1)
		}
	case *ast.CaseExpr:
		fmt.Printf("%sCaseExpr (%d branches)\n", pad, len(n.Branches))
		for _, b := range n.Branches {
			dumpNode(b.Cond, indent+1)
			dumpNode(b.Value, indent+1)
		}
		if n.Else != nil {
			dumpNode(n.Else, indent+1)
		}
	case *ast.WithExpr:
		fmt.Printf("%sWithExpr (%d bindings)\n", pad, len(n.Bindings))
		for _, b := range n.Bindings {
			fmt.Printf("%s  $%s =\n", pad, b.Name)
			dumpNode(b.Expr, indent+2)
		}
		dumpNode(n.Body, indent+1)
	case *ast.Lambda:
		fmt.Printf("%sLambda $%s\n", pad, n.Param)
		dumpNode(n.Body, indent+1)
	default:
		fmt.Printf("%s%T\n", pad, node)
	}
}
