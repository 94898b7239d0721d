//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package workspace holds the documents of one project and produces the
// semantic model over them. A Project never changes: modifying a document
// yields a new Project that shares the untouched documents.
package workspace

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// DefaultOrg is the organization of projects without an explicit one.
const DefaultOrg = "$anon"

// DefaultVersion is the version assigned to loaded modules.
const DefaultVersion = "0.1.0"

// Document is one parsed source file. Path is relative to the project root
// and slash separated.
type Document struct {
	Path string
	Tree *syntax.ModulePart
}

// Text returns the full source text.
func (d *Document) Text() string { return d.Tree.Document().Text() }

// TextDocument returns the position index of the document.
func (d *Document) TextDocument() *syntax.TextDocument { return d.Tree.Document() }

// Project is an immutable set of documents plus the dependency packages
// imports resolve against.
type Project struct {
	root  string
	id    semantic.ModuleID
	docs  map[string]*Document
	deps  []*semantic.Package
	once  sync.Once
	model semantic.Model
}

// Option configures a project.
type Option func(*options)

type options struct {
	org     string
	name    string
	version string
	deps    []dependency
}

type dependency struct {
	id      semantic.ModuleID
	sources map[string]string
}

// WithModule sets the organization and package name of the project.
func WithModule(org, name string) Option {
	return func(o *options) {
		o.org, o.name = org, name
	}
}

// WithVersion sets the module version.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithDependency adds a dependency package built from in-memory sources
// keyed by file name.
func WithDependency(id semantic.ModuleID, sources map[string]string) Option {
	return func(o *options) {
		o.deps = append(o.deps, dependency{id: id, sources: sources})
	}
}

func newOptions(root string, opts []Option) *options {
	o := &options{org: DefaultOrg, version: DefaultVersion}
	for _, opt := range opts {
		opt(o)
	}
	if o.name == "" {
		o.name = filepath.Base(filepath.Clean(root))
	}
	return o
}

// New builds a project from in-memory sources keyed by root relative path.
func New(root string, sources map[string]string, opts ...Option) (*Project, error) {
	o := newOptions(root, opts)
	p := &Project{
		root: filepath.Clean(root),
		id:   semantic.ModuleID{Org: o.org, Name: o.name, Version: o.version},
		docs: map[string]*Document{},
	}
	for name, text := range sources {
		doc, err := parseDocument(p.ResolvePath(name), text)
		if err != nil {
			return nil, err
		}
		p.docs[doc.Path] = doc
	}
	for _, d := range o.deps {
		pkg, err := dependencyPackage(d)
		if err != nil {
			return nil, err
		}
		p.deps = append(p.deps, pkg)
	}
	return p, nil
}

func parseDocument(rel, text string) (*Document, error) {
	tree, err := syntax.Parse(rel, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return &Document{Path: rel, Tree: tree}, nil
}

func dependencyPackage(d dependency) (*semantic.Package, error) {
	pkg := &semantic.Package{ID: d.id}
	names := make([]string, 0, len(d.sources))
	for name := range d.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file := path.Join(d.id.Org, d.id.Name, name)
		tree, err := syntax.Parse(file, d.sources[name])
		if err != nil {
			return nil, fmt.Errorf("parse dependency %s: %w", file, err)
		}
		pkg.Sources = append(pkg.Sources, semantic.Source{Path: file, Tree: tree})
	}
	return pkg, nil
}

// Root returns the project directory.
func (p *Project) Root() string { return p.root }

// Module returns the id of the project module.
func (p *Project) Module() semantic.ModuleID { return p.id }

// ResolvePath turns a file name, absolute or relative to the root, into the
// document path used as key throughout the project.
func (p *Project) ResolvePath(fileName string) string {
	if filepath.IsAbs(fileName) {
		if rel, err := filepath.Rel(p.root, fileName); err == nil && !strings.HasPrefix(rel, "..") {
			fileName = rel
		}
	}
	return path.Clean(filepath.ToSlash(fileName))
}

// Document returns the document at fileName.
func (p *Project) Document(fileName string) (*Document, bool) {
	d, ok := p.docs[p.ResolvePath(fileName)]
	return d, ok
}

// Documents returns every document ordered by path.
func (p *Project) Documents() []*Document {
	out := make([]*Document, 0, len(p.docs))
	for _, d := range p.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Dependencies returns the dependency packages.
func (p *Project) Dependencies() []*semantic.Package { return p.deps }

// Package returns the resolution unit of the project.
func (p *Project) Package() *semantic.Package {
	pkg := &semantic.Package{ID: p.id, Dependencies: p.deps}
	for _, d := range p.Documents() {
		pkg.Sources = append(pkg.Sources, semantic.Source{Path: d.Path, Tree: d.Tree})
	}
	return pkg
}

// SemanticModel resolves the project. The model is computed once per
// Project value; a modified project resolves afresh.
func (p *Project) SemanticModel() semantic.Model {
	p.once.Do(func() {
		p.model = semantic.Resolve(p.Package())
	})
	return p.model
}

// Duplicate returns a copy sharing the parsed documents.
func (p *Project) Duplicate() *Project {
	docs := make(map[string]*Document, len(p.docs))
	for k, v := range p.docs {
		docs[k] = v
	}
	return &Project{root: p.root, id: p.id, docs: docs, deps: p.deps}
}

// ModifyDocument returns a project where fileName holds text. A missing
// document is created.
func (p *Project) ModifyDocument(fileName, text string) (*Project, error) {
	doc, err := parseDocument(p.ResolvePath(fileName), text)
	if err != nil {
		return nil, err
	}
	cp := p.Duplicate()
	cp.docs[doc.Path] = doc
	return cp, nil
}

// ApplyEdits applies text edits to fileName and returns the modified
// project.
func (p *Project) ApplyEdits(fileName string, edits ...syntax.TextEdit) (*Project, error) {
	base := syntax.NewTextDocument(fileName, "")
	if d, ok := p.Document(fileName); ok {
		base = d.TextDocument()
	}
	text, err := base.Apply(edits...)
	if err != nil {
		return nil, err
	}
	return p.ModifyDocument(fileName, text)
}
