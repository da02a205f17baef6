//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/csg33k/signup-desk/internal/config"
)

const binary = "bin/signup-desk"

// Build tidies deps, then compiles to ./bin/signup-desk.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	return sh.Run("go", "build", "-o", binary, "./cmd/server")
}

// Run builds then executes the binary.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server ...")
	return sh.Run("./" + binary)
}

// Dev starts the server via go run.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "LOG_LEVEL=debug")
	return cmd.Run()
}

// SQLite runs the server with the SQLite record store.
// DB_PATH defaults to an in-memory database.
func SQLite() error {
	fmt.Println(">> go run ./cmd/server (STORE=sqlite) ...")
	return sh.RunWithV(map[string]string{"STORE": "sqlite"}, "go", "run", "./cmd/server")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println(">> Cleaning...")
	return os.RemoveAll("bin")
}

// Install builds and installs the binary to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", "./cmd/server")
}

func init() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
