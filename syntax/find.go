//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// PathTo returns the chain of nodes from root down to the deepest node whose
// range covers rng. The chain is empty when root does not cover rng.
func PathTo(root Node, rng TextRange) []Node {
	if isNil(root) || !covers(root.TextRange(), rng) {
		return nil
	}
	path := []Node{root}
	for {
		cur := path[len(path)-1]
		var next Node
		for _, c := range cur.Children() {
			if !isNil(c) && covers(c.TextRange(), rng) {
				next = c
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
	}
}

// FindNode returns the deepest node covering rng, or nil.
func FindNode(root Node, rng TextRange) Node {
	path := PathTo(root, rng)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// FindExact returns the outermost node whose range equals rng, or nil.
func FindExact(root Node, rng TextRange) Node {
	for _, n := range PathTo(root, rng) {
		if n.TextRange() == rng {
			return n
		}
	}
	return nil
}

// Enclosing returns the innermost node of type T on the path to rng.
func Enclosing[T Node](root Node, rng TextRange) (T, bool) {
	path := PathTo(root, rng)
	for i := len(path) - 1; i >= 0; i-- {
		if t, ok := path[i].(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func covers(outer, inner TextRange) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}
