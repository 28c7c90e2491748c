package calc

import "strings"

// Kind discriminates a Node's role in the expression tree: leaf and
// operator node shapes as one tagged variant rather than a class
// hierarchy.
type Kind int

const (
	KindScalar Kind = iota
	KindImage
	KindRandom
	KindOperator
)

// Node is one entry of the expression tree the builder produces.
// Every field outside the Kind-specific payload is shared so the
// evaluator and geometry pass can walk a uniform shape.
type Node struct {
	Kind Kind

	// KindScalar payload.
	Value Scalar

	// KindImage payload.
	Image *ImageLeaf

	// KindRandom payload.
	Random RandomKind

	// KindOperator payload.
	Op       *Operator
	Children []*Node

	// isComplex is this node's own cached output complexity: for a
	// leaf, whether its value/source is complex; for an operator node,
	// RtoZ || (!ZtoR && anyOperandComplex).
	isComplex bool

	// anyOperandComplex is cached separately from isComplex: it is the
	// OR of the *children's* isComplex bits, used only to choose
	// between an operator's R and Z kernel. It is deliberately not the
	// same thing as isComplex — ZtoR operators have anyOperandComplex
	// true but isComplex false, and the evaluator must dispatch on the
	// former while the *caller* of this node dispatches on the latter.
	anyOperandComplex bool

	// label is the provenance string built by %1/%2/%3 substitution.
	// It is only composed into parent labels; no error message or CLI
	// output reads it.
	label string
}

// IsComplex reports this node's cached output-complexity bit.
func (n *Node) IsComplex() bool { return n.isComplex }

// newScalarNode wraps a literal, reserved-word, or folded value.
func newScalarNode(v Scalar) *Node {
	n := &Node{Kind: KindScalar, Value: v, isComplex: isComplex(v)}
	n.label = formatScalar(v)
	return n
}

// newImageNode wraps a resolved image leaf.
func newImageNode(leaf *ImageLeaf) *Node {
	n := &Node{Kind: KindImage, Image: leaf, isComplex: leaf.Source.IsComplex()}
	n.label = leaf.Source.Path()
	return n
}

// newRandomNode wraps a random source; random draws are always real —
// there is no complex random kind.
func newRandomNode(kind RandomKind) *Node {
	n := &Node{Kind: KindRandom, Random: kind}
	if kind == RandomNormal {
		n.label = "randn"
	} else {
		n.label = "rand"
	}
	return n
}

// newOperatorNode builds an operator node over children, computing
// and caching both complexity bits and the provenance label. It does
// not itself validate kernel availability — callers (builder.go) check
// that before calling this.
func newOperatorNode(op *Operator, children []*Node) *Node {
	anyComplex := false
	for _, c := range children {
		if c.isComplex {
			anyComplex = true
			break
		}
	}

	isComplex := op.RtoZ || (!op.ZtoR && anyComplex)

	n := &Node{
		Kind:              KindOperator,
		Op:                op,
		Children:          children,
		isComplex:         isComplex,
		anyOperandComplex: anyComplex,
	}
	n.label = formatOperation(op.Format, children)
	return n
}

// formatOperation substitutes %1, %2, %3 in format with the
// corresponding child's label, the same provenance convention mrcalc's
// own error/operation strings use.
func formatOperation(format string, children []*Node) string {
	out := format
	for i, c := range children {
		placeholder := "%" + string('1'+byte(i))
		out = strings.ReplaceAll(out, placeholder, c.label)
	}
	return out
}
