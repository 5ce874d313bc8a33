package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpt/go-fsorganizer-mcp/internal/pathutil"
	"github.com/fpt/go-fsorganizer-mcp/internal/repository"
	"github.com/fpt/go-fsorganizer-mcp/pkg/message"
	cp "github.com/otiai10/copy"
	"github.com/pkg/errors"
)

var errNotInAllowedDirectory = errors.New("access denied: path is not within allowed directories")

// FileSystemToolManager exposes the filesystem operation catalog behind a
// single path-confinement boundary. Every handler validates each of its path
// arguments before touching the filesystem.
type FileSystemToolManager struct {
	// Access control: canonical allowed roots plus advisory limits
	config repository.FileSystemConfig

	// Recoverable deletion backend
	trasher repository.Trasher

	// Tool registry
	tools map[message.ToolName]message.Tool
}

// NewFileSystemToolManager creates a tool manager confined to the allowed
// paths in config. The config must already be normalized (canonical absolute
// roots); see config.Settings.Resolve.
func NewFileSystemToolManager(config repository.FileSystemConfig, trasher repository.Trasher) *FileSystemToolManager {
	manager := &FileSystemToolManager{
		config:  config,
		trasher: trasher,
		tools:   make(map[message.ToolName]message.Tool),
	}

	manager.registerFileSystemTools()

	return manager
}

func (m *FileSystemToolManager) GetTool(name message.ToolName) (message.Tool, bool) {
	tool, exists := m.tools[name]
	return tool, exists
}

func (m *FileSystemToolManager) GetTools() map[message.ToolName]message.Tool {
	return m.tools
}

// CallTool dispatches by tool name. Unknown names are caught here, at the
// dispatch boundary, and never reach handler logic.
func (m *FileSystemToolManager) CallTool(ctx context.Context, name message.ToolName, args message.ToolArgumentValues) (message.ToolResult, error) {
	tool, exists := m.tools[name]
	if !exists {
		return message.NewToolResultError(fmt.Sprintf("tool %s not found", name)), nil
	}

	handler := tool.Handler()
	return handler(ctx, args)
}

func (m *FileSystemToolManager) RegisterTool(name message.ToolName, description message.ToolDescription, args []message.ToolArgument, handler message.ToolHandler) {
	m.tools[name] = &fileSystemTool{
		name:        name,
		description: description,
		arguments:   args,
		handler:     handler,
	}
}

func pathArg(description string) []message.ToolArgument {
	return []message.ToolArgument{
		{Name: "path", Description: description, Required: true, Type: "string"},
	}
}

func sourceDestArgs(sourceDesc, destDesc string) []message.ToolArgument {
	return []message.ToolArgument{
		{Name: "source", Description: sourceDesc, Required: true, Type: "string"},
		{Name: "destination", Description: destDesc, Required: true, Type: "string"},
	}
}

// registerFileSystemTools registers the fixed operation catalog.
func (m *FileSystemToolManager) registerFileSystemTools() {
	m.RegisterTool("list_files", "List all files in the specified directory",
		pathArg("Path to the directory"), m.handleListFiles)

	m.RegisterTool("list_directories", "List all directories in the specified directory",
		pathArg("Path to the directory"), m.handleListDirectories)

	m.RegisterTool("list_directory_content", "List all entries (files and directories) in the specified directory",
		pathArg("Path to the directory"), m.handleListDirectoryContent)

	m.RegisterTool("get_file_info", "Get name, size and modification time for a file or directory",
		pathArg("Path to the file or directory"), m.handleGetFileInfo)

	m.RegisterTool("read_file", "Read and return the content of a file",
		pathArg("Path to the file"), m.handleReadFile)

	m.RegisterTool("write_file", "Append content to a file, creating it and its parent directories if needed",
		[]message.ToolArgument{
			{Name: "path", Description: "Path to the file", Required: true, Type: "string"},
			{Name: "content", Description: "Content to write into the file", Required: true, Type: "string"},
		},
		m.handleWriteFile)

	m.RegisterTool("delete_file", "Delete a file by moving it to the trash",
		pathArg("Path to the file to delete"), m.handleDeleteFile)

	m.RegisterTool("delete_directory", "Delete a directory by moving it to the trash",
		pathArg("Path to the directory to delete"), m.handleDeleteDirectory)

	m.RegisterTool("create_directory", "Create a new directory, including intermediate directories",
		pathArg("Path to the directory to create"), m.handleCreateDirectory)

	m.RegisterTool("move_file", "Move a file from one location to another",
		sourceDestArgs("Path to the source file", "Path to the destination"), m.handleMoveFile)

	m.RegisterTool("move_directory", "Move a directory from one location to another",
		sourceDestArgs("Path to the source directory", "Path to the destination"), m.handleMoveDirectory)

	m.RegisterTool("copy_file", "Copy a file from one location to another",
		sourceDestArgs("Path to the source file", "Path to the destination"), m.handleCopyFile)

	m.RegisterTool("copy_directory", "Copy a directory recursively; fails if the destination already exists",
		sourceDestArgs("Path to the source directory", "Path to the destination directory"), m.handleCopyDirectory)

	m.RegisterTool("search_file", "Search for files whose name contains the keyword in the specified directory",
		[]message.ToolArgument{
			{Name: "path", Description: "Path to the directory", Required: true, Type: "string"},
			{Name: "keyword", Description: "Keyword to search for in file names", Required: true, Type: "string"},
		},
		m.handleSearchFile)

	m.RegisterTool("get_allowed_paths", "Return the list of allowed root paths",
		nil, m.handleGetAllowedPaths)
}

// Security validation

// validatePath is the sole security boundary: it canonicalizes the candidate
// exactly as the allowed roots were canonicalized at load time, then accepts
// it only if it equals a root or descends from one. The separator suffix in
// the prefix check keeps /data from admitting /data2. With no roots
// configured everything is rejected.
func (m *FileSystemToolManager) validatePath(path string) (string, error) {
	candidate, err := pathutil.Canonicalize(path)
	if err != nil {
		return "", err
	}

	for _, root := range m.config.AllowedPaths {
		if candidate == root || strings.HasPrefix(candidate, root+string(os.PathSeparator)) {
			return candidate, nil
		}
	}

	return "", errors.Wrapf(errNotInAllowedDirectory, "path %s", candidate)
}

// Tool handlers

func (m *FileSystemToolManager) requirePath(args message.ToolArgumentValues) (string, *message.ToolResult) {
	pathParam, ok := args["path"].(string)
	if !ok || pathParam == "" {
		result := message.NewToolResultError("path parameter is required")
		return "", &result
	}

	path, err := m.validatePath(pathParam)
	if err != nil {
		result := message.NewToolResultError(err.Error())
		return "", &result
	}
	return path, nil
}

func (m *FileSystemToolManager) requireSourceDest(args message.ToolArgumentValues) (string, string, *message.ToolResult) {
	sourceParam, ok := args["source"].(string)
	if !ok || sourceParam == "" {
		result := message.NewToolResultError("source parameter is required")
		return "", "", &result
	}
	destParam, ok := args["destination"].(string)
	if !ok || destParam == "" {
		result := message.NewToolResultError("destination parameter is required")
		return "", "", &result
	}

	src, err := m.validatePath(sourceParam)
	if err != nil {
		result := message.NewToolResultError(err.Error())
		return "", "", &result
	}
	dest, err := m.validatePath(destParam)
	if err != nil {
		result := message.NewToolResultError(err.Error())
		return "", "", &result
	}
	return src, dest, nil
}

func namesResult(names []string) (message.ToolResult, error) {
	data, err := json.Marshal(names)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return message.NewToolResultText(string(data)), nil
}

func (m *FileSystemToolManager) handleListFiles(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to read directory: %v", err)), nil
	}

	files := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	return namesResult(files)
}

func (m *FileSystemToolManager) handleListDirectories(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to read directory: %v", err)), nil
	}

	directories := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			directories = append(directories, entry.Name())
		}
	}
	return namesResult(directories)
}

func (m *FileSystemToolManager) handleListDirectoryContent(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to read directory: %v", err)), nil
	}

	names := []string{}
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return namesResult(names)
}

func (m *FileSystemToolManager) handleGetFileInfo(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to stat %s: %v", path, err)), nil
	}

	metadata := struct {
		Name     string `json:"name"`
		Size     int64  `json:"size"`
		Modified int64  `json:"modified"`
	}{
		Name:     info.Name(),
		Size:     info.Size(),
		Modified: info.ModTime().Unix(),
	}

	data, err := json.Marshal(metadata)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return message.NewToolResultText(string(data)), nil
}

func (m *FileSystemToolManager) handleReadFile(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to read file: %v", err)), nil
	}

	if len(content) == 0 {
		return message.NewToolResultText("File is empty."), nil
	}
	return message.NewToolResultText(string(content)), nil
}

func (m *FileSystemToolManager) handleWriteFile(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	content, ok := args["content"].(string)
	if !ok {
		return message.NewToolResultError("content parameter is required and must be a string"), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to create directory: %v", err)), nil
	}

	// Appends on purpose: repeated writes accumulate instead of overwriting.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to open file: %v", err)), nil
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return message.NewToolResultError(fmt.Sprintf("failed to write file: %v", err)), nil
	}
	if err := f.Close(); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to write file: %v", err)), nil
	}

	return message.NewToolResultText(fmt.Sprintf("Successfully wrote content to %s", path)), nil
}

func (m *FileSystemToolManager) handleDeleteFile(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	if _, err := m.trasher.Trash(path); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to trash file: %v", err)), nil
	}
	return message.NewToolResultText(fmt.Sprintf("Sent file successfully to trash %s", path)), nil
}

func (m *FileSystemToolManager) handleDeleteDirectory(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	if _, err := m.trasher.Trash(path); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to trash directory: %v", err)), nil
	}
	return message.NewToolResultText(fmt.Sprintf("Sent directory successfully to trash %s", path)), nil
}

func (m *FileSystemToolManager) handleCreateDirectory(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	// MkdirAll is idempotent: an existing directory is not an error.
	if err := os.MkdirAll(path, 0o755); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to create directory: %v", err)), nil
	}
	return message.NewToolResultText(fmt.Sprintf("Successfully created directory %s", path)), nil
}

func (m *FileSystemToolManager) handleMoveFile(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	return m.movePath(args, "file")
}

func (m *FileSystemToolManager) handleMoveDirectory(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	return m.movePath(args, "directory")
}

func (m *FileSystemToolManager) movePath(args message.ToolArgumentValues, kind string) (message.ToolResult, error) {
	src, dest, errResult := m.requireSourceDest(args)
	if errResult != nil {
		return *errResult, nil
	}

	target := intoDirectory(src, dest)
	if err := os.Rename(src, target); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if copyErr := cp.Copy(src, target); copyErr != nil {
			return message.NewToolResultError(fmt.Sprintf("failed to move %s: %v", kind, err)), nil
		}
		if rmErr := os.RemoveAll(src); rmErr != nil {
			return message.NewToolResultError(fmt.Sprintf("failed to remove source after move: %v", rmErr)), nil
		}
	}

	return message.NewToolResultText(fmt.Sprintf("Successfully moved %s %s to %s", kind, src, dest)), nil
}

func (m *FileSystemToolManager) handleCopyFile(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	src, dest, errResult := m.requireSourceDest(args)
	if errResult != nil {
		return *errResult, nil
	}

	target := intoDirectory(src, dest)
	if err := cp.Copy(src, target); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to copy file: %v", err)), nil
	}

	return message.NewToolResultText(fmt.Sprintf("Successfully copied file %s to %s", src, dest)), nil
}

func (m *FileSystemToolManager) handleCopyDirectory(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	src, dest, errResult := m.requireSourceDest(args)
	if errResult != nil {
		return *errResult, nil
	}

	// Checked before any copying so a failed call never touches the destination.
	if _, err := os.Stat(dest); err == nil {
		return message.NewToolResultError(fmt.Sprintf("destination already exists: %s", dest)), nil
	} else if !os.IsNotExist(err) {
		return message.NewToolResultError(fmt.Sprintf("failed to check destination: %v", err)), nil
	}

	if err := cp.Copy(src, dest); err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to copy directory: %v", err)), nil
	}

	return message.NewToolResultText(fmt.Sprintf("Successfully copied directory %s to %s", src, dest)), nil
}

func (m *FileSystemToolManager) handleSearchFile(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	path, errResult := m.requirePath(args)
	if errResult != nil {
		return *errResult, nil
	}

	keyword, ok := args["keyword"].(string)
	if !ok {
		return message.NewToolResultError("keyword parameter is required"), nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return message.NewToolResultError(fmt.Sprintf("failed to read directory: %v", err)), nil
	}

	matches := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.Contains(entry.Name(), keyword) {
			matches = append(matches, entry.Name())
		}
	}
	return namesResult(matches)
}

func (m *FileSystemToolManager) handleGetAllowedPaths(ctx context.Context, args message.ToolArgumentValues) (message.ToolResult, error) {
	paths := m.config.AllowedPaths
	if paths == nil {
		paths = []string{}
	}
	return namesResult(paths)
}

// intoDirectory mirrors shutil.move/copy semantics: when the destination is
// an existing directory, the source lands inside it under its own basename.
func intoDirectory(src, dest string) string {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, filepath.Base(src))
	}
	return dest
}

// fileSystemTool is a helper struct for filesystem tool registration
type fileSystemTool struct {
	name        message.ToolName
	description message.ToolDescription
	arguments   []message.ToolArgument
	handler     message.ToolHandler
}

func (t *fileSystemTool) Name() message.ToolName {
	return t.name
}

func (t *fileSystemTool) Description() message.ToolDescription {
	return t.description
}

func (t *fileSystemTool) Arguments() []message.ToolArgument {
	return t.arguments
}

func (t *fileSystemTool) Handler() message.ToolHandler {
	return t.handler
}
