// blockytool is a CLI utility for working with blockymodel and blockyanim
// files.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/blockyforge/internal/config"
	"github.com/Faultbox/blockyforge/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cmd, ok := commands[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Debug("running command", zap.String("command", command), zap.Strings("args", args[1:]))
	if err := cmd(a, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`blockytool - blockymodel / blockyanim utility

Usage:
  blockytool [flags] <command> [options]

Flags:
  -config <file>   Config file (default ./blockyforge.yaml or user config dir)
  -policy <name>   Main shape policy: zero-rotation-or-aligned-quad, zero-rotation, sole-child
  -indent <n>      JSON indent in spaces, 0 = compact
  -assets <dir>    Extra asset directory
  -debug           Debug logging

Commands:
  info <model>                         Show nodes, textures and animations
  check <model>                        Run validation checks
  roundtrip [-o out] <model>           Parse and compile a model again
  attach [-o out] <model> <attachment> [name]
                                       Graft an attachment and export it again
  anim [-model m] [-o out] <anim>      Summarize (and re-encode) an animation
  sample <model> <anim> <seconds>      Print the preview pose of every bone
  dump <file>                          Dump the decoded file structure

Examples:
  blockytool info Characters/Kweebec/Model.blockymodel
  blockytool -policy zero-rotation roundtrip -o out.blockymodel Chest.blockymodel
  blockytool sample Model.blockymodel ../Animations/Idle/Idle.blockyanim 0.5`)
}
