//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

import (
	"encoding/json"
	"fmt"

	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
)

// Node is one editable unit the editor renders as a box.
type Node struct {
	ID         string      `json:"id"`
	Metadata   Metadata    `json:"metadata"`
	Codedata   *Codedata   `json:"codedata"`
	Returning  bool        `json:"returning"`
	Properties *Properties `json:"properties,omitempty"`
	Flags      int         `json:"flags"`
}

// Kind returns the codedata node kind or "".
func (n *Node) Kind() NodeKind {
	if n == nil || n.Codedata == nil {
		return ""
	}
	return n.Codedata.Node
}

// Property returns the property at key. A missing key means the feature is
// not present.
func (n *Node) Property(key string) (*Property, bool) {
	if n == nil {
		return nil, false
	}
	return n.Properties.Get(key)
}

// PropertyText returns the scalar value at key or "".
func (n *Node) PropertyText(key string) string {
	p, _ := n.Property(key)
	return p.Text()
}

// DecodeNode parses a JSON flow node.
func DecodeNode(data []byte) (*Node, error) {
	n := &Node{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("decode flow node: %w", err)
	}
	return n, nil
}

// ModuleInfo names the module a node belongs to.
type ModuleInfo struct {
	Org         string `json:"org"`
	PackageName string `json:"packageName"`
	ModuleName  string `json:"moduleName"`
	Version     string `json:"version"`
}

// ModuleInfoOf converts a module id.
func ModuleInfoOf(id semantic.ModuleID) ModuleInfo {
	return ModuleInfo{Org: id.Org, PackageName: id.Name, ModuleName: id.Name, Version: id.Version}
}

// TypeData describes a structural type definition.
type TypeData struct {
	Name       string      `json:"name"`
	Editable   bool        `json:"editable"`
	Metadata   Metadata    `json:"metadata"`
	Codedata   *Codedata   `json:"codedata"`
	Properties *Properties `json:"properties"`
	Members    []Member    `json:"members"`
	RestMember *Member     `json:"restMember,omitempty"`
	Includes   []string    `json:"includes"`
}

// Member is one field of a type definition.
type Member struct {
	Kind         string   `json:"kind"`
	Refs         []string `json:"refs"`
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Docs         string   `json:"docs,omitempty"`
	Optional     bool     `json:"optional,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty"`
}

// MemberKindField is the kind of record field members.
const MemberKindField = "FIELD"
