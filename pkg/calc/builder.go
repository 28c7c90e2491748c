package calc

import "strings"

// entry is one stack slot: either an unresolved operand token or an
// already-resolved tree node. Go lets a "resolved scalar" just be
// another *Node (KindScalar), so there is no separate resolved/raw
// union beyond this one pointer-or-string pair.
type entry struct {
	raw    string
	node   *Node
	hasRaw bool
}

func rawEntry(token string) entry { return entry{raw: token, hasRaw: true} }
func nodeEntry(n *Node) entry     { return entry{node: n} }

// Builder implements the postfix stack machine: push operand tokens,
// push operator identifiers, and it resolves, folds, and links nodes
// as it goes.
type Builder struct {
	stack  []entry
	cache  *leafCache
	openFn func(string) (ImageSource, error)
}

// NewBuilder constructs a builder whose image operands are opened
// through openFn (the engine's voxel-image package, injected so the
// builder itself does not depend on a concrete storage format).
func NewBuilder(openFn func(string) (ImageSource, error)) *Builder {
	return &Builder{cache: newLeafCache(), openFn: openFn}
}

// PushOperand pushes an unresolved operand token.
func (b *Builder) PushOperand(token string) {
	b.stack = append(b.stack, rawEntry(token))
}

// PushOperator resolves the top arity(name) entries and either folds
// them into a scalar or links them under a new operator node.
func (b *Builder) PushOperator(name string) error {
	op := Lookup(name)
	if op == nil {
		return &ParseError{Token: name}
	}
	if len(b.stack) < op.Arity {
		return &StackUnderflowError{Operator: name, Arity: op.Arity, Have: len(b.stack)}
	}

	base := len(b.stack) - op.Arity
	top := b.stack[base:]

	children := make([]*Node, op.Arity)
	for i := range top {
		n, err := b.resolve(top[i])
		if err != nil {
			return err
		}
		children[i] = n
	}

	result, err := b.apply(op, children)
	if err != nil {
		return err
	}

	b.stack = append(b.stack[:base], nodeEntry(result))
	return nil
}

// resolve turns a stack entry into a node, parsing a raw token in a
// fixed order: image path, then reserved words, then rand/randn, then
// numeric literal.
func (b *Builder) resolve(e entry) (*Node, error) {
	if !e.hasRaw {
		return e.node, nil
	}
	token := e.raw

	if leaf, err := b.cache.open(token, b.openFn); err == nil {
		return newImageNode(leaf), nil
	}

	if v, ok := parseReservedWord(token); ok {
		return newScalarNode(v), nil
	}

	switch strings.ToLower(token) {
	case "rand":
		return newRandomNode(RandomUniform), nil
	case "randn":
		return newRandomNode(RandomNormal), nil
	}

	v, err := parseNumericLiteral(token)
	if err != nil {
		return nil, &ParseError{Token: token}
	}
	return newScalarNode(v), nil
}

// apply links an operator node unless every child is a plain scalar
// literal, in which case it folds eagerly.
func (b *Builder) apply(op *Operator, children []*Node) (*Node, error) {
	allScalar := true
	for _, c := range children {
		if c.Kind != KindScalar {
			allScalar = false
			break
		}
	}

	if !allScalar {
		if err := checkKernelAvailable(op, children); err != nil {
			return nil, err
		}
		return newOperatorNode(op, children), nil
	}

	anyComplex := false
	for _, c := range children {
		if c.isComplex {
			anyComplex = true
			break
		}
	}

	if !anyComplex && op.R != nil {
		args := make([]float32, len(children))
		for i, c := range children {
			args[i] = real(c.Value)
		}
		return newScalarNode(op.R(args)), nil
	}
	if op.Z != nil {
		args := make([]Scalar, len(children))
		for i, c := range children {
			args[i] = c.Value
		}
		return newScalarNode(op.Z(args)), nil
	}

	domain := "real"
	if anyComplex {
		domain = "complex"
	}
	return nil, &OperationNotSupportedError{Operator: op.Name, Domain: domain}
}

// checkKernelAvailable aborts at build time, before any worker is
// spawned, when an operator node would have no kernel to dispatch to
// once operand complexity is known. Dispatch itself happens later
// (evaluator.go) purely from the node's cached bits; this only checks
// that a kernel exists for at least the domain that will be needed.
func checkKernelAvailable(op *Operator, children []*Node) error {
	anyComplex := false
	for _, c := range children {
		if c.isComplex {
			anyComplex = true
			break
		}
	}
	if anyComplex {
		if op.Z == nil {
			return &OperationNotSupportedError{Operator: op.Name, Domain: "complex"}
		}
		return nil
	}
	if op.R == nil {
		return &OperationNotSupportedError{Operator: op.Name, Domain: "real"}
	}
	return nil
}

// Finish selects the root: exactly one scalar remaining means
// calculator mode; an expression plus a trailing output-path token
// means image mode.
func (b *Builder) Finish() (root *Node, outputPath string, calculatorMode bool, err error) {
	switch len(b.stack) {
	case 0:
		return nil, "", false, &StackImbalanceError{Height: 0}
	case 1:
		// The sole remaining entry may never have passed through an
		// operator (e.g. a bare "3" or a bare image path with no
		// operator at all), so it still needs resolving here.
		n, err := b.resolve(b.stack[0])
		if err != nil {
			return nil, "", false, err
		}
		if !hasLeaves(n) {
			return n, "", true, nil
		}
		return nil, "", false, &StackImbalanceError{Height: 1}
	case 2:
		exprEntry, pathEntry := b.stack[0], b.stack[1]
		if !pathEntry.hasRaw {
			return nil, "", false, &StackImbalanceError{Height: 2}
		}
		exprNode, err := b.resolve(exprEntry)
		if err != nil {
			return nil, "", false, err
		}
		// The second entry is only a genuine output path when the
		// expression has an image leaf to give it a geometry; two
		// residual scalars (e.g. "1 2") is a stack imbalance, not an
		// image write with no pixels.
		if !hasLeaves(exprNode) {
			return nil, "", false, &StackImbalanceError{Height: 2}
		}
		return exprNode, pathEntry.raw, false, nil
	default:
		return nil, "", false, &StackImbalanceError{Height: len(b.stack)}
	}
}

// hasLeaves reports whether n's subtree contains any image or random
// leaf. A root with none, reduced to one scalar, is calculator mode
// even if it was never folded because no operator touched it — e.g. a
// bare literal operand with no operator at all.
func hasLeaves(n *Node) bool {
	switch n.Kind {
	case KindImage, KindRandom:
		return true
	case KindOperator:
		for _, c := range n.Children {
			if hasLeaves(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
