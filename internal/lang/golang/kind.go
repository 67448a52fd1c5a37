package golang

import (
	"go/ast"
)

// Kind is the node kind of Go trees.
type Kind uint8

const (
	KindOther Kind = iota
	KindFile
	KindImportSpec
	KindGenDecl
	KindValueSpec
	KindTypeSpec
	KindStructDecl
	KindInterfaceDecl
	KindFuncDecl
	KindMethodDecl
	KindFuncType
	KindFieldList
	KindField
	KindStructType
	KindInterfaceType
	KindBlockStmt
	KindExprStmt
	KindAssignStmt
	KindReturnStmt
	KindCallExpr
	KindSelectorExpr
	KindIdent
	KindBasicLit
	KindCompositeLit
	KindStarExpr
	KindCommentGroup
	KindComment

	kindCount
)

var kindNames = [kindCount]string{
	KindOther:         "Other",
	KindFile:          "File",
	KindImportSpec:    "ImportSpec",
	KindGenDecl:       "GenDecl",
	KindValueSpec:     "ValueSpec",
	KindTypeSpec:      "TypeSpec",
	KindStructDecl:    "StructDecl",
	KindInterfaceDecl: "InterfaceDecl",
	KindFuncDecl:      "FuncDecl",
	KindMethodDecl:    "MethodDecl",
	KindFuncType:      "FuncType",
	KindFieldList:     "FieldList",
	KindField:         "Field",
	KindStructType:    "StructType",
	KindInterfaceType: "InterfaceType",
	KindBlockStmt:     "BlockStmt",
	KindExprStmt:      "ExprStmt",
	KindAssignStmt:    "AssignStmt",
	KindReturnStmt:    "ReturnStmt",
	KindCallExpr:      "CallExpr",
	KindSelectorExpr:  "SelectorExpr",
	KindIdent:         "Ident",
	KindBasicLit:      "BasicLit",
	KindCompositeLit:  "CompositeLit",
	KindStarExpr:      "StarExpr",
	KindCommentGroup:  "CommentGroup",
	KindComment:       "Comment",
}

func (k Kind) String() string {
	if k < kindCount {
		return "go." + kindNames[k]
	}
	return "go.Unknown"
}

// logical maps shared kind names onto Go kinds.
var logical = map[string]Kind{
	"CompilationUnit":        KindFile,
	"StructDeclaration":      KindStructDecl,
	"MethodDeclaration":      KindMethodDecl,
	"InvocationExpression":   KindCallExpr,
	"MemberAccessExpression": KindSelectorExpr,
	"Identifier":             KindIdent,
	"Comment":                KindComment,
}

func kindOf(n ast.Node) Kind {
	switch n := n.(type) {
	case *ast.File:
		return KindFile
	case *ast.ImportSpec:
		return KindImportSpec
	case *ast.GenDecl:
		return KindGenDecl
	case *ast.ValueSpec:
		return KindValueSpec
	case *ast.TypeSpec:
		switch n.Type.(type) {
		case *ast.StructType:
			return KindStructDecl
		case *ast.InterfaceType:
			return KindInterfaceDecl
		}
		return KindTypeSpec
	case *ast.FuncDecl:
		if n.Recv != nil {
			return KindMethodDecl
		}
		return KindFuncDecl
	case *ast.FuncType:
		return KindFuncType
	case *ast.FieldList:
		return KindFieldList
	case *ast.Field:
		return KindField
	case *ast.StructType:
		return KindStructType
	case *ast.InterfaceType:
		return KindInterfaceType
	case *ast.BlockStmt:
		return KindBlockStmt
	case *ast.ExprStmt:
		return KindExprStmt
	case *ast.AssignStmt:
		return KindAssignStmt
	case *ast.ReturnStmt:
		return KindReturnStmt
	case *ast.CallExpr:
		return KindCallExpr
	case *ast.SelectorExpr:
		return KindSelectorExpr
	case *ast.Ident:
		return KindIdent
	case *ast.BasicLit:
		return KindBasicLit
	case *ast.CompositeLit:
		return KindCompositeLit
	case *ast.StarExpr:
		return KindStarExpr
	case *ast.CommentGroup:
		return KindCommentGroup
	case *ast.Comment:
		return KindComment
	default:
		return KindOther
	}
}
