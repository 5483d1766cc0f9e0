// Package mmap maps local blob files read-only into memory.
//
//	m, err := mmap.Open("fixtures/uniform.hvf", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; access hints are ignored there.
//
// A Mapping is safe for concurrent reads. Callers must not touch the slice
// returned by Bytes after Close.
package mmap
