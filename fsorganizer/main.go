package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/fpt/go-fsorganizer-mcp/internal/config"
	mcpserver "github.com/fpt/go-fsorganizer-mcp/internal/mcp"
	"github.com/fpt/go-fsorganizer-mcp/internal/tool"
	"github.com/fpt/go-fsorganizer-mcp/internal/trash"
	pkgLogger "github.com/fpt/go-fsorganizer-mcp/pkg/logger"
)

const (
	serverName    = "Filesystem Organizer"
	serverVersion = "0.1.0"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "fsorganizer - filesystem organizer MCP server")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Exposes allow-listed filesystem operations over MCP stdio.")
	fmt.Fprintln(os.Stderr, "Configure allowed roots via config/<os>.json or FILESYSTEM_ALLOWED_PATHS.")
	fmt.Fprintln(os.Stderr)
}

func main() {
	var configDir = flag.String("config", "", "Directory containing the OS-keyed configuration files")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var verboseLong = flag.Bool("verbose", false, "Enable verbose logging (debug level)")

	flag.Usage = func() {
		printUsage()
		fmt.Fprintln(os.Stderr, "Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	logLevel := pkgLogger.LogLevelInfo
	if *verbose || *verboseLong {
		logLevel = pkgLogger.LogLevelDebug
	}
	pkgLogger.SetGlobalLogLevel(logLevel)
	logger := pkgLogger.NewComponentLogger("server")

	// Malformed configuration is the only fatal failure; everything after
	// startup is reported to the caller as a request-level error.
	settings, err := config.LoadSettings(*configDir)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg, err := settings.Resolve()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	bin, err := trash.New()
	if err != nil {
		logger.Error("Failed to locate trash directory", "error", err)
		os.Exit(1)
	}

	manager := tool.NewFileSystemToolManager(cfg, bin)

	workingDir, _ := os.Getwd()
	logger.Info("Starting Filesystem Organizer MCP server",
		"version", serverVersion, "os", runtime.GOOS, "working_dir", workingDir)
	logger.Info("Allowed paths loaded", "paths", cfg.AllowedPaths)
	logger.Info("Advisory limits",
		"max_file_size", cfg.MaxFileSize, "allowed_extensions", cfg.AllowedExtensions)
	if len(cfg.AllowedPaths) == 0 {
		logger.Warn("No allowed paths configured; every filesystem operation will be denied")
	}

	srv := mcpserver.NewServer(serverName, serverVersion, manager)
	if err := srv.Serve(); err != nil {
		logger.Error("Server terminated", "error", err)
		os.Exit(1)
	}
}
