// Package parser turns Java source into the resolvable syntax tree of
// package ast.
//
// # Overview
//
// The parser does not own the tree it builds. It drives an ast.Session,
// which tags every node with the scope, file and enclosing type that are
// current when the node is constructed:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │             │
//	└─────────────┘     └─────────────┘     └──────┬──────┘
//	                                               │ Begin/End, OpenScope,
//	                                               │ Introduce, SetTypeRef
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │ ast.Session │
//	                                        └─────────────┘
//
// Scope-introducing constructs (files, types, methods, blocks, for loops,
// catch clauses, switch blocks, resources and lambdas) open their scope
// before their contents are parsed and close it afterwards. Declarations
// are introduced into the innermost scope as soon as their declarator is
// complete, so later siblings see them and earlier ones do not.
//
// # Tokens and Trivia
//
// The lexer produces every token, whitespace and comments included.
// Lexer.Tokenize attaches the hidden ones to their significant neighbours:
//
//	int x; // count\n
//	└┬┘ ┬┬ └───┬────┘
//	 │  ││     └── Trailing of ";"
//	 │  │└── ";"
//	 │  └── "x"
//	 └── "int"
//
// The closing ">" of type arguments is always its own token. The parser
// reassembles ">>", ">>>", ">>=" and ">>>=" from adjacent ">" tokens.
//
// # Error Recovery
//
// Parsing never fails. Malformed input becomes KindError nodes that own the
// skipped tokens, and an S001 diagnostic is reported once per position.
// Since every token ends up as a leaf somewhere, writing the tree back with
// ast.Tree.WriteSource reproduces the input byte for byte.
//
// # Example Usage
//
//	ctx := ast.NewCompileContext()
//	s := ast.NewSession(ctx)
//	file, err := parser.Parse(s, src, parser.WithFile("Main.java"))
//	if err != nil {
//		return err
//	}
//	ctx.Complete()
//	ctx.Diagnostics().WriteTo(os.Stderr)
//
// A Session builds one file at a time. Use one Session per goroutine;
// a CompileContext itself is not safe for concurrent use.
package parser
