package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yift/findit/internal/config"
	"github.com/yift/findit/internal/diag"
	"github.com/yift/findit/internal/display"
	"github.com/yift/findit/internal/errors"
	"github.com/yift/findit/internal/eval"
	"github.com/yift/findit/internal/regexcache"
	"github.com/yift/findit/internal/walker"
)

var (
	whereExpr      string
	displayExpr    string
	jsonOutput     bool
	jsonFields     []string
	prettyOutput   bool
	delimiter      string
	orderByExpr    string
	limit          int
	depth          int
	nodeLast       bool
	regexCacheSize int
	debugLogPath   string
)

var searchCmd = &cobra.Command{
	Use:   "search [path...]",
	Short: "Walk one or more directory trees and evaluate --where/--display against every path",
	Long: `Walk one or more directory trees, evaluating --where against each path to
decide whether to emit it and --display (or --json) to format it.

Examples:
  findit search --where 'extension == "rs"'
  findit search /src --where 'size > 1024' --display '` + "`path`" + ` (` + "`size`" + ` bytes)'
  findit search --where 'content.contains("TODO")' --json --json-field 'path=path' --json-field 'line=content'`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	registerSearchFlags(searchCmd)
}

func registerSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&whereExpr, "where", "", "boolean expression deciding whether to emit a path")
	cmd.Flags().StringVar(&displayExpr, "display", "", "display template rendered for each match (default: the path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit one JSON object per match instead of --display text")
	cmd.Flags().StringArrayVar(&jsonFields, "json-field", nil, "name=expr pair added to --json output (repeatable)")
	cmd.Flags().BoolVar(&prettyOutput, "pretty", false, "pretty-print --json output")
	cmd.Flags().StringVar(&delimiter, "delim", "`", "delimiter marking an embedded expression in --display")
	cmd.Flags().StringVar(&orderByExpr, "order-by", "", "expression evaluated per sibling to order output")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many matches (0 = unlimited)")
	cmd.Flags().IntVar(&depth, "depth", -1, "max recursion depth below each root (-1 = unlimited, 0 = root only)")
	cmd.Flags().BoolVar(&nodeLast, "node-last", false, "emit a matching directory after its children instead of before")
	cmd.Flags().IntVar(&regexCacheSize, "regex-cache-size", 256, "bounded LRU capacity for compiled MATCHES patterns")
	cmd.Flags().StringVar(&debugLogPath, "debug-log", "", "file to flush debug(...) builtin output to on exit")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil && verbose {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	opts := walker.Options{Depth: depth, NodeFirst: !nodeLast}
	cfg.Apply(&opts)
	if cmd.Flags().Changed("limit") {
		opts.Limit = limit
	}
	if cmd.Flags().Changed("depth") {
		opts.Depth = depth
	}
	if cmd.Flags().Changed("node-last") {
		opts.NodeFirst = !nodeLast
	}
	cacheSize := cfg.RegexCacheSizeOr(regexCacheSize)
	if cmd.Flags().Changed("regex-cache-size") {
		cacheSize = regexCacheSize
	}
	delim := cfg.DelimiterOr(firstRune(delimiter, '`'))
	if cmd.Flags().Changed("delim") {
		delim = firstRune(delimiter, '`')
	}

	var sink eval.DebugSink
	var debugLog *diag.DebugLog
	if debugLogPath != "" {
		debugLog = diag.NewDebugLog(debugLogPath)
		sink = debugLog
		defer func() {
			if err := debugLog.Flush(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}()
	}
	opts.DebugSink = sink

	if whereExpr != "" {
		expr, perr := eval.Compile(whereExpr)
		if perr != nil {
			return reportParseError("--where", perr)
		}
		opts.Where = expr
	}
	effectiveOrderBy := cfg.OrderBy
	if cmd.Flags().Changed("order-by") {
		effectiveOrderBy = orderByExpr
	}
	if effectiveOrderBy != "" {
		expr, perr := eval.Compile(effectiveOrderBy)
		if perr != nil {
			return reportParseError("--order-by", perr)
		}
		opts.OrderBy = expr
	}

	var textTemplate *display.Template
	var jsonTemplate *display.JSONTemplate
	if jsonOutput {
		fields, err := parseJSONFields(jsonFields)
		if err != nil {
			return err
		}
		tpl, perr := display.CompileJSON(fields, prettyOutput)
		if perr != nil {
			return reportParseError("--json-field", perr)
		}
		jsonTemplate = tpl
	} else if displayExpr != "" {
		tpl, perr := display.Compile(displayExpr, delim)
		if perr != nil {
			return reportParseError("--display", perr)
		}
		textTemplate = tpl
	}

	ev := eval.New(regexcache.New(cacheSize))

	for entry, rerr := range walker.Walk(cmd.Context(), roots, ev, opts) {
		if rerr != nil {
			return fmt.Errorf("%s", diag.FormatRuntime(rerr))
		}
		line, rerr := renderEntry(ev, entry, jsonTemplate, textTemplate)
		if rerr != nil {
			return fmt.Errorf("%s", diag.FormatRuntime(rerr))
		}
		fmt.Println(line)
	}
	return nil
}

func renderEntry(ev *eval.Evaluator, entry walker.Entry, jsonTemplate *display.JSONTemplate, textTemplate *display.Template) (string, *errors.RuntimeError) {
	if jsonTemplate != nil {
		return jsonTemplate.Render(ev, entry.Context)
	}
	if textTemplate != nil {
		return textTemplate.Render(ev, entry.Context)
	}
	return entry.Path, nil
}

func parseJSONFields(raw []string) ([]display.Field, error) {
	if len(raw) == 0 {
		return []display.Field{{Name: "path", Expr: "path"}}, nil
	}
	fields := make([]display.Field, len(raw))
	for i, f := range raw {
		name, expr, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("--json-field %q: expected name=expr", f)
		}
		fields[i] = display.Field{Name: name, Expr: expr}
	}
	return fields, nil
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

func reportParseError(flag string, perr *errors.ParseError) error {
	return fmt.Errorf("%s: %s", flag, diag.FormatParse(perr, false))
}
