package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yift/findit/internal/lexer"
)

var (
	lexShowPos  bool
	lexJSON     bool
	lexJSONPath string
)

var lexCmd = &cobra.Command{
	Use:   "lex <expr>",
	Short: "Tokenize a findit expression and print the resulting tokens",
	Long: `Tokenize (lex) a findit expression and print the resulting tokens.

Useful for debugging the expression language grammar itself, separately
from whether it parses or evaluates.

Examples:
  findit lex 'size > 1024'
  findit lex --show-pos 'extension == "rs"'`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexJSON, "json", false, "dump the token stream as a JSON array")
	lexCmd.Flags().StringVar(&lexJSONPath, "json-query", "", "gjson path to extract from the --json output")
}

func runLex(cmd *cobra.Command, args []string) error {
	l := lexer.New(args[0])

	if lexJSON {
		doc := tokensToJSON(l)
		if lexJSONPath != "" {
			fmt.Println(queryJSON(doc, lexJSONPath))
			return nil
		}
		fmt.Println(doc)
		return nil
	}

	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	if errs := l.Errors(); len(errs) > 0 {
		return fmt.Errorf("lexer reported %d error(s)", len(errs))
	}
	return nil
}

func printToken(tok lexer.Token) {
	output := fmt.Sprintf("[%-10s]", tok.Type)
	if tok.Literal != "" {
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		output += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(output)
}
