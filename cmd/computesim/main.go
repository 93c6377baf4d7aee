// Package main provides the compute-sim CLI.
package main

import (
	"fmt"
	"os"

	"github.com/planetis-m/compute-sim/internal/config"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("compute-sim %s\n", version)
			return
		case "config":
			checkConfig(os.Args[2:])
			return
		}
	}

	fmt.Println("compute-sim - a CPU-hosted emulator of the GPU compute-shader execution model")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version        Show version")
	fmt.Println("  config <path>  Validate a SubgroupSize/MaxConcurrentWorkGroups config file")
	fmt.Println("")
	fmt.Println("Shaders are authored in Go against the computesim package, not via this CLI.")
}

func checkConfig(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: computesim config <path>")
		os.Exit(2)
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "compute-sim: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "compute-sim: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ok: subgroupSize=%d maxConcurrentWorkGroups=%d\n", cfg.SubgroupSize, cfg.MaxConcurrentWorkGroups)
}
