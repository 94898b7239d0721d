//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

// Property keys shared by every builder. Editors address properties with
// exactly these strings.
const (
	KeyVariable     = "variable"
	KeyType         = "type"
	KeyExpression   = "expression"
	KeyParameters   = "parameters"
	KeyFunctionName = "functionName"
	KeyConnection   = "connection"
	KeyCheckError   = "checkError"
)

// Keys of a parameter entry inside the parameters property.
const (
	KeyParamType        = "type"
	KeyParamVariable    = "variable"
	KeyParamDefaultable = "defaultable"
)

// KeyFinal marks a variable declaration final.
const KeyFinal = "final"

// Keys of type data properties.
const (
	KeyName        = "name"
	KeyDescription = "description"
	KeyIsArray     = "isArray"
	KeyArraySize   = "arraySize"
)

// Keys of call nodes.
const (
	KeyMethod     = "method"
	KeyReturnType = "returnType"
)

// Reserved reports whether key is one of the structural keys of a call node
// rather than an argument.
func Reserved(key string) bool {
	switch key {
	case KeyVariable, KeyType, KeyConnection, KeyCheckError:
		return true
	}
	return false
}
