package csharp

// Kind is the node kind of C# trees, one per tree-sitter node type the
// facade distinguishes. Everything else is KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindCompilationUnit
	KindUsingDirective
	KindNamespace
	KindClass
	KindStruct
	KindRecord
	KindInterface
	KindMethod
	KindInvocation
	KindMemberAccess
	KindIdentifier
	KindModifier
	KindBaseList
	KindAttributeList
	KindAttribute
	KindComment
	KindBlock

	// modifier keywords, reported by ModifierKinds
	KindRefKeyword
	KindReadonlyKeyword
	KindPartialKeyword
	KindStaticKeyword
	KindPublicKeyword
	KindInternalKeyword
	KindPrivateKeyword
	KindProtectedKeyword
	KindUnsafeKeyword
	KindAbstractKeyword
	KindSealedKeyword

	kindCount
)

var kindNames = [kindCount]string{
	KindOther:            "other",
	KindCompilationUnit:  "compilation_unit",
	KindUsingDirective:   "using_directive",
	KindNamespace:        "namespace_declaration",
	KindClass:            "class_declaration",
	KindStruct:           "struct_declaration",
	KindRecord:           "record_declaration",
	KindInterface:        "interface_declaration",
	KindMethod:           "method_declaration",
	KindInvocation:       "invocation_expression",
	KindMemberAccess:     "member_access_expression",
	KindIdentifier:       "identifier",
	KindModifier:         "modifier",
	KindBaseList:         "base_list",
	KindAttributeList:    "attribute_list",
	KindAttribute:        "attribute",
	KindComment:          "comment",
	KindBlock:            "block",
	KindRefKeyword:       "ref",
	KindReadonlyKeyword:  "readonly",
	KindPartialKeyword:   "partial",
	KindStaticKeyword:    "static",
	KindPublicKeyword:    "public",
	KindInternalKeyword:  "internal",
	KindPrivateKeyword:   "private",
	KindProtectedKeyword: "protected",
	KindUnsafeKeyword:    "unsafe",
	KindAbstractKeyword:  "abstract",
	KindSealedKeyword:    "sealed",
}

func (k Kind) String() string {
	if k < kindCount {
		return "cs." + kindNames[k]
	}
	return "cs.unknown"
}

var byNodeType = func() map[string]Kind {
	m := make(map[string]Kind, KindRefKeyword)
	for k := KindCompilationUnit; k < KindRefKeyword; k++ {
		m[kindNames[k]] = k
	}
	m["file_scoped_namespace_declaration"] = KindNamespace
	m["record_struct_declaration"] = KindStruct
	return m
}()

var modifierKinds = func() map[string]Kind {
	m := make(map[string]Kind, kindCount-KindRefKeyword)
	for k := KindRefKeyword; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

var logical = map[string]Kind{
	"CompilationUnit":        KindCompilationUnit,
	"StructDeclaration":      KindStruct,
	"ClassDeclaration":       KindClass,
	"MethodDeclaration":      KindMethod,
	"InvocationExpression":   KindInvocation,
	"MemberAccessExpression": KindMemberAccess,
	"Identifier":             KindIdentifier,
	"RefKeyword":             KindRefKeyword,
	"Comment":                KindComment,
}
