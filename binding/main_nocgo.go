//go:build !cgo

package main

// Без cgo wrapper.go не собирается; пустой main нужен, чтобы пакет компилировался.
func main() {}
