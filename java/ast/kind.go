package ast

type Kind int

const (
	KindError Kind = iota
	KindToken
	KindEOF

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindQualifiedName

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindEnumConstant
	KindClassBody

	// Members
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindInitializer

	// Types and modifiers
	KindModifiers
	KindAnnotation
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindExtendsClause
	KindImplementsClause

	// Method components
	KindParameters
	KindParameter
	KindThrowsList
	KindVarDeclarator

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindResources
	KindResource
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindLabeledStmt
	KindLocalVarDecl
	KindLocalClassDecl

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindInstanceofExpr
	KindCallExpr
	KindArguments
	KindMethodRef
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindLambdaExpr
	KindParenExpr
	KindLiteral
	KindName
	KindThis
	KindSuper
	KindClassLiteral
)

var kindNames = map[Kind]string{
	KindError:            "Error",
	KindToken:            "Token",
	KindEOF:              "EOF",
	KindCompilationUnit:  "CompilationUnit",
	KindPackageDecl:      "PackageDecl",
	KindImportDecl:       "ImportDecl",
	KindQualifiedName:    "QualifiedName",
	KindClassDecl:        "ClassDecl",
	KindInterfaceDecl:    "InterfaceDecl",
	KindEnumDecl:         "EnumDecl",
	KindEnumConstant:     "EnumConstant",
	KindClassBody:        "ClassBody",
	KindFieldDecl:        "FieldDecl",
	KindMethodDecl:       "MethodDecl",
	KindConstructorDecl:  "ConstructorDecl",
	KindInitializer:      "Initializer",
	KindModifiers:        "Modifiers",
	KindAnnotation:       "Annotation",
	KindTypeParameters:   "TypeParameters",
	KindTypeParameter:    "TypeParameter",
	KindTypeArguments:    "TypeArguments",
	KindType:             "Type",
	KindExtendsClause:    "ExtendsClause",
	KindImplementsClause: "ImplementsClause",
	KindParameters:       "Parameters",
	KindParameter:        "Parameter",
	KindThrowsList:       "ThrowsList",
	KindVarDeclarator:    "VarDeclarator",
	KindBlock:            "Block",
	KindEmptyStmt:        "EmptyStmt",
	KindExprStmt:         "ExprStmt",
	KindIfStmt:           "IfStmt",
	KindForStmt:          "ForStmt",
	KindForInit:          "ForInit",
	KindForUpdate:        "ForUpdate",
	KindEnhancedForStmt:  "EnhancedForStmt",
	KindWhileStmt:        "WhileStmt",
	KindDoStmt:           "DoStmt",
	KindSwitchStmt:       "SwitchStmt",
	KindSwitchCase:       "SwitchCase",
	KindSwitchLabel:      "SwitchLabel",
	KindReturnStmt:       "ReturnStmt",
	KindBreakStmt:        "BreakStmt",
	KindContinueStmt:     "ContinueStmt",
	KindThrowStmt:        "ThrowStmt",
	KindTryStmt:          "TryStmt",
	KindResources:        "Resources",
	KindResource:         "Resource",
	KindCatchClause:      "CatchClause",
	KindFinallyClause:    "FinallyClause",
	KindSynchronizedStmt: "SynchronizedStmt",
	KindAssertStmt:       "AssertStmt",
	KindLabeledStmt:      "LabeledStmt",
	KindLocalVarDecl:     "LocalVarDecl",
	KindLocalClassDecl:   "LocalClassDecl",
	KindAssignExpr:       "AssignExpr",
	KindTernaryExpr:      "TernaryExpr",
	KindBinaryExpr:       "BinaryExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindPostfixExpr:      "PostfixExpr",
	KindCastExpr:         "CastExpr",
	KindInstanceofExpr:   "InstanceofExpr",
	KindCallExpr:         "CallExpr",
	KindArguments:        "Arguments",
	KindMethodRef:        "MethodRef",
	KindFieldAccess:      "FieldAccess",
	KindArrayAccess:      "ArrayAccess",
	KindNewExpr:          "NewExpr",
	KindNewArrayExpr:     "NewArrayExpr",
	KindArrayInit:        "ArrayInit",
	KindLambdaExpr:       "LambdaExpr",
	KindParenExpr:        "ParenExpr",
	KindLiteral:          "Literal",
	KindName:             "Name",
	KindThis:             "This",
	KindSuper:            "Super",
	KindClassLiteral:     "ClassLiteral",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsStatement reports whether nodes of this kind are executable statements
// carrying control-flow, exception and VarList attributes.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindEmptyStmt, KindExprStmt, KindIfStmt, KindForStmt,
		KindEnhancedForStmt, KindWhileStmt, KindDoStmt, KindSwitchStmt,
		KindReturnStmt, KindBreakStmt, KindContinueStmt, KindThrowStmt,
		KindTryStmt, KindSynchronizedStmt, KindAssertStmt, KindLabeledStmt,
		KindLocalVarDecl, KindLocalClassDecl:
		return true
	}
	return false
}

func (k Kind) IsExpression() bool {
	return k >= KindAssignExpr && k <= KindClassLiteral
}

// IsTypeDecl reports whether the kind declares a class, interface or enum.
func (k Kind) IsTypeDecl() bool {
	return k == KindClassDecl || k == KindInterfaceDecl || k == KindEnumDecl
}

// IsLoop reports whether the kind is an iteration statement.
func (k Kind) IsLoop() bool {
	switch k {
	case KindForStmt, KindEnhancedForStmt, KindWhileStmt, KindDoStmt:
		return true
	}
	return false
}

// isBoundary reports whether control leaving a body of this kind returns to
// a caller rather than to a following statement.
func (k Kind) isBoundary() bool {
	switch k {
	case KindMethodDecl, KindConstructorDecl, KindInitializer, KindLambdaExpr,
		KindClassBody, KindCompilationUnit:
		return true
	}
	return false
}

// isSequence reports whether statement children of this kind execute one
// after another, so that each links to the following one.
func (k Kind) isSequence() bool {
	return k == KindBlock || k == KindSwitchCase
}
