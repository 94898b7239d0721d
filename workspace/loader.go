//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
)

// SourcePattern selects the source files of a project.
const SourcePattern = "**/*.bal"

// DependenciesDir holds dependency sources as <org>/<package>/*.bal.
const DependenciesDir = "dependencies"

// Directories never scanned for project sources.
var skippedDirs = map[string]bool{DependenciesDir: true, "target": true, ".git": true}

// ErrNotDirectory is returned when the project root is not a directory.
var ErrNotDirectory = errors.New("workspace: project root is not a directory")

// Load reads every source file under root, honoring root/.gitignore, and
// the dependency packages under root/dependencies.
func Load(ctx context.Context, root string, opts ...Option) (*Project, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load project %s: %w", root, ErrNotDirectory)
	}
	fs := afs.New()
	gi, _ := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))

	files, err := listSources(ctx, fs, root, func(rel string, dir bool) bool {
		if dir && skippedDirs[path.Base(rel)] {
			return false
		}
		return gi == nil || !gi.MatchesPath(rel)
	})
	if err != nil {
		return nil, err
	}
	sources, err := readAll(ctx, fs, root, files)
	if err != nil {
		return nil, err
	}

	deps, err := loadDependencies(ctx, fs, filepath.Join(root, DependenciesDir))
	if err != nil {
		return nil, err
	}
	opts = append(deps, opts...)
	p, err := New(root, sources, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded project %s: %d documents, %d dependencies", p.id, len(p.docs), len(p.deps))
	return p, nil
}

// listSources walks root and returns the root relative paths matching
// SourcePattern. keep decides whether a path is visited.
func listSources(ctx context.Context, fs afs.Service, root string, keep func(rel string, dir bool) bool) ([]string, error) {
	var out []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		rel := path.Join(filepath.ToSlash(parent), info.Name())
		if !keep(rel, info.IsDir()) {
			return false, nil
		}
		if info.IsDir() {
			return true, nil
		}
		ok, err := doublestar.PathMatch(SourcePattern, rel)
		if err != nil {
			return false, err
		}
		if ok {
			out = append(out, rel)
		}
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

func readAll(ctx context.Context, fs afs.Service, root string, files []string) (map[string]string, error) {
	sources := make(map[string]string, len(files))
	for _, rel := range files {
		data, err := fs.DownloadWithURL(ctx, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		sources[rel] = string(data)
	}
	return sources, nil
}

// loadDependencies turns dependencies/<org>/<pkg>/*.bal into options.
func loadDependencies(ctx context.Context, fs afs.Service, dir string) ([]Option, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, nil
	}
	files, err := listSources(ctx, fs, dir, func(string, bool) bool { return true })
	if err != nil {
		return nil, err
	}
	byModule := map[semantic.ModuleID][]string{}
	var ids []semantic.ModuleID
	for _, rel := range files {
		parts := strings.Split(rel, "/")
		if len(parts) != 3 {
			continue
		}
		id := semantic.ModuleID{Org: parts[0], Name: parts[1], Version: DefaultVersion}
		if _, seen := byModule[id]; !seen {
			ids = append(ids, id)
		}
		byModule[id] = append(byModule[id], rel)
	}
	var opts []Option
	for _, id := range ids {
		sources, err := readAll(ctx, fs, dir, byModule[id])
		if err != nil {
			return nil, err
		}
		named := make(map[string]string, len(sources))
		for rel, text := range sources {
			named[path.Base(rel)] = text
		}
		opts = append(opts, WithDependency(id, named))
	}
	return opts, nil
}
