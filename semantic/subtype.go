//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package semantic

const maxSubtypeDepth = 16

// SubTypeOf reports whether every value of a is a value of b, using a
// structural approximation of the language's sub-typing rules.
func SubTypeOf(a, b *TypeSymbol) bool {
	return subType(a, b, 0)
}

func subType(a, b *TypeSymbol, depth int) bool {
	if a == nil || b == nil || depth > maxSubtypeDepth {
		return false
	}
	if a == b || (a.Kind == TypeReference && b.Kind == TypeReference && sameDefinition(a, b)) {
		return true
	}
	ra, rb := a.RawType(), b.RawType()
	if ra == rb {
		return true
	}
	if ra.Kind == TypeUnion {
		for _, m := range ra.Members {
			if !subType(m, b, depth+1) {
				return false
			}
		}
		return len(ra.Members) > 0
	}
	if rb.Kind == TypeUnion {
		for _, m := range rb.Members {
			if subType(a, m, depth+1) {
				return true
			}
		}
		return false
	}
	switch rb.Kind {
	case TypeAny:
		return ra.Kind != TypeError
	case TypeAnydata:
		return isAnydata(ra)
	case TypeJSON:
		return isJSON(ra)
	}
	if ra.Kind == TypeSingleton {
		if rb.Kind == TypeSingleton {
			return ra.Value == rb.Value
		}
		return subType(singletonBase(ra), rb, depth+1)
	}
	switch rb.Kind {
	case TypeRecord:
		if ra.Kind != TypeRecord {
			return false
		}
		for _, bf := range rb.Fields {
			af, ok := ra.Field(bf.Name)
			if !ok {
				if bf.Optional {
					continue
				}
				return false
			}
			if !bf.Optional && af.Optional {
				return false
			}
			if !subType(af.Type, bf.Type, depth+1) {
				return false
			}
		}
		return true
	case TypeArray:
		return ra.Kind == TypeArray && subType(ra.Member, rb.Member, depth+1)
	case TypeMap:
		switch ra.Kind {
		case TypeMap:
			return subType(ra.Member, rb.Member, depth+1)
		case TypeRecord:
			for _, f := range ra.Fields {
				if !subType(f.Type, rb.Member, depth+1) {
					return false
				}
			}
			return ra.Rest == nil || subType(ra.Rest, rb.Member, depth+1)
		}
		return false
	case TypeObject:
		return ra.Kind == TypeObject && objectSubType(ra, rb, depth)
	case TypeError:
		return ra.Kind == TypeError
	case TypeInt:
		return ra.Kind == TypeInt || ra.Kind == TypeByte
	}
	return ra.Kind == rb.Kind && ra.Kind != TypeCompilationError && ra.Kind != TypeReference
}

func sameDefinition(a, b *TypeSymbol) bool {
	return a.Name == b.Name && a.Module == b.Module
}

// objectSubType accepts a when it includes b by name or provides every
// method of b.
func objectSubType(a, b *TypeSymbol, depth int) bool {
	if a.Name != "" && a.Name == b.Name && a.Module == b.Module {
		return true
	}
	for _, inc := range a.Inclusions {
		if subType(inc, b, depth+1) {
			return true
		}
	}
	if len(b.Methods) == 0 {
		return false
	}
	for _, m := range b.Methods {
		found := false
		for _, am := range a.Methods {
			if am.Name == m.Name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func singletonBase(t *TypeSymbol) *TypeSymbol {
	v := t.Value
	switch {
	case v == "true" || v == "false":
		return Builtin("boolean")
	case len(v) > 0 && v[0] == '"':
		return Builtin("string")
	case len(v) > 0 && (v[0] >= '0' && v[0] <= '9' || v[0] == '-'):
		for _, c := range v {
			if c == '.' || c == 'e' || c == 'E' {
				return Builtin("float")
			}
		}
		return Builtin("int")
	}
	return Builtin("anydata")
}

func isAnydata(t *TypeSymbol) bool {
	switch t.Kind {
	case TypeError, TypeObject, TypeFunction, TypeHandle, TypeFuture, TypeStream, TypeTypedesc,
		TypeAny, TypeCompilationError:
		return false
	case TypeArray, TypeMap:
		return t.Member == nil || isAnydata(t.Member.RawType())
	case TypeUnion:
		for _, m := range t.Members {
			if !isAnydata(m.RawType()) {
				return false
			}
		}
	}
	return true
}

func isJSON(t *TypeSymbol) bool {
	switch t.Kind {
	case TypeInt, TypeFloat, TypeDecimal, TypeString, TypeBoolean, TypeNil, TypeJSON, TypeByte, TypeSingleton:
		return true
	case TypeArray, TypeMap:
		return t.Member == nil || isJSON(t.Member.RawType())
	case TypeRecord:
		for _, f := range t.Fields {
			if !isJSON(f.Type.RawType()) {
				return false
			}
		}
		return true
	case TypeUnion:
		for _, m := range t.Members {
			if !isJSON(m.RawType()) {
				return false
			}
		}
		return true
	}
	return false
}
