package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// ListFiles lists the entries of a remote directory. The "~" shorthand and
// the empty path resolve to the session's working directory, so returned
// paths are always rooted at a real remote directory.
func (m *SFTPManager) ListFiles(params ConnParams, dirPath string, opts ListOptions) ListResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return ListResult{Error: err.Error()}
	}

	resolved, err := normalizeRemotePath(session, dirPath)
	if err != nil {
		return ListResult{Error: fmt.Sprintf("failed to resolve directory %s: %v", dirPath, err)}
	}

	infos, err := session.ReadDir(resolved)
	if err != nil {
		return ListResult{Error: fmt.Sprintf("failed to read directory %s: %v", resolved, err)}
	}

	entries := make([]RemoteFileEntry, 0, len(infos))
	for _, info := range infos {
		hidden := strings.HasPrefix(info.Name(), ".")
		if hidden && !opts.ShowHidden {
			continue
		}

		entry := RemoteFileEntry{
			Name:        info.Name(),
			Path:        joinRemotePath(resolved, info.Name()),
			IsDirectory: info.IsDir(),
			Size:        info.Size(),
			ModTime:     info.ModTime(),
			IsHidden:    hidden,
		}
		if !info.IsDir() {
			entry.MimeType = mime.TypeByExtension(path.Ext(info.Name()))
		}
		entries = append(entries, entry)
	}

	return ListResult{Success: true, Data: entries}
}

// PreviewFile renders a remote file for display: text files come back
// verbatim, binary files as base64, and oversized files as a size notice.
func (m *SFTPManager) PreviewFile(params ConnParams, filePath string) PreviewResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return PreviewResult{Error: err.Error()}
	}

	resolved, err := normalizeRemotePath(session, filePath)
	if err != nil {
		return PreviewResult{Error: fmt.Sprintf("failed to resolve path %s: %v", filePath, err)}
	}

	info, err := session.Stat(resolved)
	if err != nil {
		return PreviewResult{Error: fmt.Sprintf("failed to stat %s: %v", resolved, err)}
	}

	fileName := path.Base(resolved)
	mimeType := mime.TypeByExtension(path.Ext(fileName))
	cfg := m.config()

	if info.Size() > int64(cfg.MaxPreviewBytes) {
		return PreviewResult{
			Success: true,
			Preview: &FilePreview{
				Type:     PreviewTypeTooLarge,
				Message:  fmt.Sprintf("File is too large to preview (%d bytes, limit %d)", info.Size(), cfg.MaxPreviewBytes),
				MimeType: mimeType,
			},
			FileName: fileName,
			FileSize: info.Size(),
		}
	}

	file, err := session.Open(resolved)
	if err != nil {
		return PreviewResult{Error: fmt.Sprintf("failed to open %s: %v", resolved, err)}
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return PreviewResult{Error: fmt.Sprintf("failed to read %s: %v", resolved, err)}
	}

	preview := &FilePreview{MimeType: mimeType}
	if isTextContent(fileName, content) {
		preview.Type = PreviewTypeText
		preview.Content = string(content)
	} else {
		preview.Type = PreviewTypeBinary
		preview.Content = base64.StdEncoding.EncodeToString(content)
	}

	return PreviewResult{
		Success:  true,
		Preview:  preview,
		FileName: fileName,
		FileSize: info.Size(),
	}
}

// DeleteFile removes a remote file, or a directory tree when isDirectory is
// set. SFTP has no recursive delete, so directories are walked depth-first.
func (m *SFTPManager) DeleteFile(params ConnParams, filePath string, isDirectory bool) OpResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return OpResult{Error: err.Error()}
	}

	resolved, err := normalizeRemotePath(session, filePath)
	if err != nil {
		return OpResult{Error: fmt.Sprintf("failed to resolve path %s: %v", filePath, err)}
	}

	if isDirectory {
		if err := deleteDirectoryRecursive(session, resolved); err != nil {
			return OpResult{Error: err.Error()}
		}
	} else {
		if err := session.Remove(resolved); err != nil {
			return OpResult{Error: fmt.Sprintf("failed to remove file %s: %v", resolved, err)}
		}
	}

	m.history.Add("delete", resolved)
	return OpResult{Success: true}
}

// deleteDirectoryRecursive removes a directory and everything under it.
func deleteDirectoryRecursive(session remoteSession, dirPath string) error {
	infos, err := session.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	for _, info := range infos {
		fullPath := joinRemotePath(dirPath, info.Name())
		if info.IsDir() {
			if err := deleteDirectoryRecursive(session, fullPath); err != nil {
				return err
			}
		} else {
			if err := session.Remove(fullPath); err != nil {
				return fmt.Errorf("failed to remove file %s: %w", fullPath, err)
			}
		}
	}

	if err := session.RemoveDirectory(dirPath); err != nil {
		return fmt.Errorf("failed to remove directory %s: %w", dirPath, err)
	}
	return nil
}

// RenameFile renames or moves a remote file or directory.
func (m *SFTPManager) RenameFile(params ConnParams, oldPath, newPath string) OpResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return OpResult{Error: err.Error()}
	}

	oldResolved, err := normalizeRemotePath(session, oldPath)
	if err != nil {
		return OpResult{Error: fmt.Sprintf("failed to resolve path %s: %v", oldPath, err)}
	}
	newResolved, err := normalizeRemotePath(session, newPath)
	if err != nil {
		return OpResult{Error: fmt.Sprintf("failed to resolve path %s: %v", newPath, err)}
	}

	if err := session.Rename(oldResolved, newResolved); err != nil {
		return OpResult{Error: fmt.Sprintf("failed to rename %s to %s: %v", oldResolved, newResolved, err)}
	}

	m.history.Add("rename", fmt.Sprintf("%s to %s", oldResolved, newResolved))
	return OpResult{Success: true}
}

// CreateFolder creates a new remote directory.
func (m *SFTPManager) CreateFolder(params ConnParams, dirPath string) OpResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return OpResult{Error: err.Error()}
	}

	resolved, err := normalizeRemotePath(session, dirPath)
	if err != nil {
		return OpResult{Error: fmt.Sprintf("failed to resolve path %s: %v", dirPath, err)}
	}

	if err := session.Mkdir(resolved); err != nil {
		return OpResult{Error: fmt.Sprintf("failed to create directory %s: %v", resolved, err)}
	}

	m.history.Add("create_folder", resolved)
	return OpResult{Success: true}
}

// CreateFile creates a remote file with the given content, truncating any
// existing file at that path.
func (m *SFTPManager) CreateFile(params ConnParams, filePath, content string) OpResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return OpResult{Error: err.Error()}
	}

	resolved, err := normalizeRemotePath(session, filePath)
	if err != nil {
		return OpResult{Error: fmt.Sprintf("failed to resolve path %s: %v", filePath, err)}
	}

	file, err := session.Create(resolved)
	if err != nil {
		return OpResult{Error: fmt.Sprintf("failed to create file %s: %v", resolved, err)}
	}
	defer file.Close()

	if _, err := file.Write([]byte(content)); err != nil {
		return OpResult{Error: fmt.Sprintf("failed to write file %s: %v", resolved, err)}
	}

	m.history.Add("create_file", resolved)
	return OpResult{Success: true}
}

// textExtensions are always previewed as text regardless of content.
var textExtensions = map[string]bool{
	"txt": true, "md": true, "json": true, "yaml": true, "yml": true,
	"xml": true, "html": true, "htm": true, "css": true, "js": true,
	"ts": true, "py": true, "go": true, "rs": true, "c": true, "h": true,
	"cpp": true, "java": true, "rb": true, "php": true, "sh": true,
	"bash": true, "sql": true, "conf": true, "cfg": true, "ini": true,
	"toml": true, "env": true, "log": true, "csv": true, "tsv": true,
}

// isTextContent decides whether a file can be previewed as text, combining
// the extension with a printable-byte scan of the content.
func isTextContent(fileName string, content []byte) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if textExtensions[ext] {
		return true
	}

	// Dotfiles without a second extension are almost always config text
	base := strings.ToLower(fileName)
	if strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".") {
		return true
	}

	// Null bytes indicate binary content
	for _, b := range content {
		if b == 0 {
			return false
		}
	}

	printable := 0
	for _, b := range content {
		if (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r' || b >= 128 {
			printable++
		}
	}
	if len(content) > 0 && float64(printable)/float64(len(content)) < 0.90 {
		return false
	}
	return true
}
