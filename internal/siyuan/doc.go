// Package siyuan talks to a SiYuan note repository. Two backends satisfy the
// same Backend interface: Client uses the kernel's HTTP API and Store reads the
// kernel's SQLite index directly. Both are safe to call from background
// goroutines; neither touches UI state.
package siyuan
