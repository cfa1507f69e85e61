// Package syntax builds and queries the lossless concrete syntax tree
// (CST) described by spec §3.1: a green tree of shared, hash-consed
// immutable nodes overlaid by a red tree of transient, offset-carrying
// navigation nodes. It generalizes the teacher's direct
// token-stream-to-AST construction (internal/parser) into an
// error-tolerant, byte-exact intermediate stage that internal/ast then
// projects.
package syntax

// NodeKind enumerates the kinds a GreenNode can have. Unlike
// lexer.TokenType (which only ever labels leaves), NodeKind only ever
// labels interior nodes — the two enums are deliberately distinct types
// so a GreenChild's tag says which one applies (see GreenChild).
type NodeKind uint16

const (
	NodeError NodeKind = iota
	NodeModule
	NodeImportItem
	NodeTypeItem
	NodeMember
	NodeFnItem
	NodeParamList
	NodeParam
	NodeLetItem
	NodeExprItem
	NodeName
	NodeTypeRef
	NodePointerTypeRef
	NodeBlockExpr
	NodeNameRefExpr
	NodeLiteralExpr
	NodePrefixExpr
	NodeBinExpr
	NodeGroupExpr
	NodeReturnExpr
	NodeBreakExpr
	NodeContinueExpr
	NodeCastExpr
	NodeCallExpr
	NodeArgList
	NodeIndexExpr
	NodeIfExpr
	NodeLoopExpr
	NodeWhileExpr
	NodeStructLiteralExpr
	NodeStructLiteralField
	NodeAssignExpr
)

var nodeNames = [...]string{
	NodeError:              "ERROR",
	NodeModule:             "MODULE",
	NodeImportItem:         "IMPORT_ITEM",
	NodeTypeItem:           "TYPE_ITEM",
	NodeMember:             "MEMBER",
	NodeFnItem:             "FN_ITEM",
	NodeParamList:          "PARAM_LIST",
	NodeParam:              "PARAM",
	NodeLetItem:            "LET_ITEM",
	NodeExprItem:           "EXPR_ITEM",
	NodeName:               "NAME",
	NodeTypeRef:            "TYPE_REF",
	NodePointerTypeRef:     "POINTER_TYPE_REF",
	NodeBlockExpr:          "BLOCK_EXPR",
	NodeNameRefExpr:        "NAME_REF_EXPR",
	NodeLiteralExpr:        "LITERAL_EXPR",
	NodePrefixExpr:         "PREFIX_EXPR",
	NodeBinExpr:            "BIN_EXPR",
	NodeGroupExpr:          "GROUP_EXPR",
	NodeReturnExpr:         "RETURN_EXPR",
	NodeBreakExpr:          "BREAK_EXPR",
	NodeContinueExpr:       "CONTINUE_EXPR",
	NodeCastExpr:           "CAST_EXPR",
	NodeCallExpr:           "CALL_EXPR",
	NodeArgList:            "ARG_LIST",
	NodeIndexExpr:          "INDEX_EXPR",
	NodeIfExpr:             "IF_EXPR",
	NodeLoopExpr:           "LOOP_EXPR",
	NodeWhileExpr:          "WHILE_EXPR",
	NodeStructLiteralExpr:  "STRUCT_LITERAL_EXPR",
	NodeStructLiteralField: "STRUCT_LITERAL_FIELD",
	NodeAssignExpr:         "ASSIGN_EXPR",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeNames) && nodeNames[k] != "" {
		return nodeNames[k]
	}
	return "UNKNOWN_NODE"
}
