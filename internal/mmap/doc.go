// Package mmap maps local node tables read-only into memory.
//
// Usage:
//
//	m, err := mmap.Open("nodes.csv")
//	if err != nil { ... }
//	r := m.NewReader() // closing r unmaps
//
// Unix uses mmap(2) and madvise(2). Windows uses a read-only file mapping view
// and skips the access hints.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch Bytes() after it returns.
package mmap
