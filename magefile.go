//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when no target is specified.
var Default = Test

// Test runs the full unit test suite.
func Test() error {
	fmt.Println("running kaleidoscope test suite")
	return sh.RunV("go", "test", "-v", "./...")
}

// Bench runs every benchmark in the module (go test -bench=.).
func Bench() error {
	fmt.Println("running benchmarks")
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Build compiles the kaleidoscope binary.
func Build() error {
	fmt.Println("building kaleidoscope")
	return sh.RunV("go", "build", "-o", "bin/kaleidoscope", ".")
}

// Clean removes build output.
func Clean() error {
	fmt.Println("cleaning build output")
	return sh.Rm("bin")
}

// Tidy tidies go.mod.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// Lint runs golangci-lint if present.
func Lint() error {
	if !commandExists("golangci-lint") {
		fmt.Println("golangci-lint not found, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run")
}

// CI runs the lint-then-test pipeline used before a release.
func CI() error {
	mg.SerialDeps(Lint, Test, Build)
	return nil
}

func commandExists(name string) bool {
	_, err := sh.Output("which", name)
	return err == nil
}
