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
	"fmt"
	"strconv"

	"github.com/minio/highwayhash"

	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// nodeIDKey must stay 32 bytes.
var nodeIDKey = []byte("trpc-flowmodel-go.node-id.key.01")

// NodeID derives a stable id from a construct's kind and location, so an
// unchanged construct keeps its id across requests.
func NodeID(kind NodeKind, r syntax.LineRange) string {
	h, err := highwayhash.New64(nodeIDKey)
	if err != nil {
		// Only an invalid key length fails.
		panic(err)
	}
	fmt.Fprintf(h, "%s|%s|%s-%s", r.FileName, kind, r.StartLine, r.EndLine)
	return strconv.FormatUint(h.Sum64(), 36)
}
