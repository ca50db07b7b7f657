// Package syntax provides dependency trees, the parsers that produce them and
// the dependency-depth feature.
package syntax

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for parser failures callers may need to tell apart.
var (
	// ErrNotParsed indicates a sentence has no parse available.
	ErrNotParsed = errors.New("syntax: sentence not parsed")

	// ErrInvalidTree indicates head indices that do not form a tree.
	ErrInvalidTree = errors.New("syntax: invalid dependency tree")
)

// Node is one token of a dependency tree.
type Node struct {
	Form     string
	Children []*Node
}

// Parser turns text into dependency trees, one root per sentence.
type Parser interface {
	Parse(ctx context.Context, text string) ([]*Node, error)
}

// Depth returns the length of the longest path from n down to a leaf.
// A node without children has depth 0.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := Depth(c) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// MaxDepth returns the largest Depth over roots, or 0 when there are none.
func MaxDepth(roots []*Node) int {
	deepest := 0
	for _, r := range roots {
		if d := Depth(r); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// FromHeads builds a tree from 1-based head indices, where heads[i] is the head
// of token i+1 and 0 marks a root. It returns every root in token order.
func FromHeads(forms []string, heads []int) ([]*Node, error) {
	if len(forms) != len(heads) {
		return nil, fmt.Errorf("%w: %d forms, %d heads", ErrInvalidTree, len(forms), len(heads))
	}
	nodes := make([]*Node, len(forms))
	for i, f := range forms {
		nodes[i] = &Node{Form: f}
	}

	var roots []*Node
	for i, h := range heads {
		switch {
		case h == 0:
			roots = append(roots, nodes[i])
		case h < 0 || h > len(nodes) || h == i+1:
			return nil, fmt.Errorf("%w: token %d has head %d", ErrInvalidTree, i+1, h)
		default:
			nodes[h-1].Children = append(nodes[h-1].Children, nodes[i])
		}
	}
	if len(nodes) > 0 && len(roots) == 0 {
		return nil, fmt.Errorf("%w: no root", ErrInvalidTree)
	}
	if reachable(roots) != len(nodes) {
		return nil, fmt.Errorf("%w: cycle", ErrInvalidTree)
	}
	return roots, nil
}

func reachable(roots []*Node) int {
	count := 0
	stack := append([]*Node(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}
