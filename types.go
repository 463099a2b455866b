package main

import (
	"sync"
	"time"
)

// Strongly-typed IDs for type safety
type TransferID string
type EndpointKey string

func (t TransferID) String() string {
	return string(t)
}

func (k EndpointKey) String() string {
	return string(k)
}

// Transfer direction constants
const (
	TransferTypeUpload   = "upload"
	TransferTypeDownload = "download"
)

// Preview type constants
const (
	PreviewTypeText     = "text"
	PreviewTypeBinary   = "binary"
	PreviewTypeTooLarge = "too-large"
)

// Resource limits
const (
	MaxPooledSessions  = 25
	MaxActiveTransfers = 50
	MaxHistoryEntries  = 200

	DefaultSFTPPort = 22
)

// Cleanup interface for resource management
type Cleanup interface {
	Close() error
}

// ConnParams describes how to reach a remote SFTP endpoint.
// Exactly one of Password / KeyPath is normally set; when both are empty the
// dialer falls back to ssh-agent and default key locations.
type ConnParams struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	KeyPath  string `json:"keyPath,omitempty"`
}

// TransferRecord is the bookkeeping entry for one in-flight upload or download.
// Owned exclusively by the TransferTracker between Begin and End.
type TransferRecord struct {
	ID               TransferID
	Type             string
	SrcPath          string
	DestPath         string
	FileName         string
	TotalBytes       int64
	TransferredBytes int64
	StartTime        time.Time
	LastUpdate       time.Time
	LastBytes        int64
	Speed            float64
	RemainingTime    int64
}

// ProgressEvent is delivered to progress subscribers on every transfer step.
type ProgressEvent struct {
	TransferID       TransferID `json:"transferId"`
	Type             string     `json:"type"`
	FileName         string     `json:"fileName"`
	Progress         int        `json:"progress"`
	TransferredBytes int64      `json:"transferredBytes"`
	TotalBytes       int64      `json:"totalBytes"`
	TransferSpeed    float64    `json:"transferSpeed"`
	RemainingTime    int64      `json:"remainingTime"`
}

// TransferResult is the terminal outcome of an upload or download call.
// Exactly one of TransferID / Cancelled / Error carries meaning.
type TransferResult struct {
	Success    bool       `json:"success"`
	TransferID TransferID `json:"transferId,omitempty"`
	Cancelled  bool       `json:"cancelled,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// OpResult is the outcome of a non-chunked remote operation.
type OpResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// RemoteFileEntry describes one directory entry returned by ListFiles.
type RemoteFileEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"isDirectory"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mtime"`
	MimeType    string    `json:"mimeType,omitempty"`
	IsHidden    bool      `json:"isHidden"`
}

// ListResult is the outcome of a ListFiles call.
type ListResult struct {
	Success bool              `json:"success"`
	Data    []RemoteFileEntry `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// FilePreview holds the rendered preview of a remote file.
type FilePreview struct {
	Type     string `json:"type"` // "text", "binary" or "too-large"
	Content  string `json:"content,omitempty"`
	Message  string `json:"message,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// PreviewResult is the outcome of a PreviewFile call.
type PreviewResult struct {
	Success  bool         `json:"success"`
	Preview  *FilePreview `json:"preview,omitempty"`
	FileName string       `json:"fileName,omitempty"`
	FileSize int64        `json:"fileSize,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// TransferOptions carries per-call options for upload/download.
type TransferOptions struct {
	OnProgress func(ProgressEvent)
}

// ListOptions carries per-call options for ListFiles.
type ListOptions struct {
	ShowHidden bool `json:"showHidden"`
}

// HistoryEntry records one completed remote operation.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Path      string    `json:"path"`
}

// operationHistory is a bounded in-memory ring of completed operations.
type operationHistory struct {
	mu      sync.Mutex
	entries []HistoryEntry
	limit   int
}

func newOperationHistory(limit int) *operationHistory {
	return &operationHistory{limit: limit}
}

func (h *operationHistory) Add(operation, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, HistoryEntry{
		Timestamp: time.Now().UTC(),
		Operation: operation,
		Path:      path,
	})
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

func (h *operationHistory) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *operationHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
