package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrTransferCancelled is returned when a transfer is cancelled by the user
var ErrTransferCancelled = errors.New("transfer cancelled by user")

// stepFunc is invoked after every chunk with the total bytes moved so far
// and the size of the chunk just written. Returning an error aborts the copy.
type stepFunc func(transferred int64, chunk int) error

// copyChunked moves data in buffer-sized chunks, invoking step at every
// chunk boundary. The loop itself polls for abort via step's return value,
// so cancellation never depends on an error thrown through a callback.
func copyChunked(dst io.Writer, src io.Reader, buf []byte, step stepFunc) (int64, error) {
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
			if stepErr := step(written, wn); stepErr != nil {
				return written, stepErr
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// makeStep builds the per-chunk callback for a transfer: it checks the
// cancellation flag first, then records the sample and fans the resulting
// event out to the broker and the caller's handler.
func (m *SFTPManager) makeStep(id TransferID, totalBytes int64, opts TransferOptions) stepFunc {
	return func(transferred int64, chunk int) error {
		if m.tracker.IsCancelled(id) {
			return ErrTransferCancelled
		}
		ev, ok := m.tracker.Update(id, transferred, totalBytes)
		if !ok {
			return nil
		}
		m.broker.Publish(ev)
		if opts.OnProgress != nil {
			opts.OnProgress(ev)
		}
		return nil
	}
}

// UploadFile copies a local file to the remote endpoint with per-chunk
// progress tracking and cooperative cancellation.
func (m *SFTPManager) UploadFile(params ConnParams, localPath, remotePath string, opts TransferOptions) TransferResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return TransferResult{Error: err.Error()}
	}

	// Validate the source before touching any registry.
	info, err := os.Stat(localPath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("local file %s: %v", localPath, err)}
	}
	if info.IsDir() {
		return TransferResult{Error: fmt.Sprintf("local path %s is a directory", localPath)}
	}
	totalBytes := info.Size()

	destPath, err := normalizeRemotePath(session, remotePath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to resolve remote path %s: %v", remotePath, err)}
	}

	id := TransferID(uuid.NewString())
	fileName := filepath.Base(localPath)
	if err := m.tracker.Begin(id, TransferTypeUpload, localPath, destPath, fileName, totalBytes); err != nil {
		return TransferResult{Error: err.Error()}
	}
	defer m.tracker.End(id)

	localFile, err := os.Open(localPath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to open local file %s: %v", localPath, err)}
	}
	defer localFile.Close()

	dstFile, err := session.Create(destPath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to create remote file %s: %v", destPath, err)}
	}
	defer dstFile.Close()

	cfg := m.config()
	reader := bufio.NewReaderSize(localFile, cfg.BufferSize)
	buf := make([]byte, cfg.BufferSize)

	_, err = copyChunked(dstFile, reader, buf, m.makeStep(id, totalBytes, opts))
	if err != nil {
		dstFile.Close()
		if errors.Is(err, ErrTransferCancelled) {
			// Don't leave a partial file behind.
			session.Remove(destPath)
			return TransferResult{Cancelled: true}
		}
		return TransferResult{Error: fmt.Sprintf("failed to copy %s: %v", localPath, err)}
	}

	m.history.Add("upload", destPath)
	return TransferResult{Success: true, TransferID: id}
}

// DownloadFile copies a remote file to the local filesystem with per-chunk
// progress tracking and cooperative cancellation.
func (m *SFTPManager) DownloadFile(params ConnParams, remotePath, localPath string, opts TransferOptions) TransferResult {
	session, err := m.pool.Acquire(params)
	if err != nil {
		return TransferResult{Error: err.Error()}
	}

	srcPath, err := normalizeRemotePath(session, remotePath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to resolve remote path %s: %v", remotePath, err)}
	}

	// Remote stat doubles as the path check and the size for progress.
	info, err := session.Stat(srcPath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("remote file %s: %v", srcPath, err)}
	}
	if info.IsDir() {
		return TransferResult{Error: fmt.Sprintf("remote path %s is a directory", srcPath)}
	}
	totalBytes := info.Size()

	id := TransferID(uuid.NewString())
	fileName := path.Base(srcPath)
	if err := m.tracker.Begin(id, TransferTypeDownload, srcPath, localPath, fileName, totalBytes); err != nil {
		return TransferResult{Error: err.Error()}
	}
	defer m.tracker.End(id)

	srcFile, err := session.Open(srcPath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to open remote file %s: %v", srcPath, err)}
	}
	defer srcFile.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to create local file %s: %v", localPath, err)}
	}
	defer localFile.Close()

	cfg := m.config()
	writer := bufio.NewWriterSize(localFile, cfg.BufferSize)
	buf := make([]byte, cfg.BufferSize)

	_, err = copyChunked(writer, srcFile, buf, m.makeStep(id, totalBytes, opts))
	if err != nil {
		localFile.Close()
		if errors.Is(err, ErrTransferCancelled) {
			os.Remove(localPath)
			return TransferResult{Cancelled: true}
		}
		return TransferResult{Error: fmt.Sprintf("failed to copy %s: %v", srcPath, err)}
	}

	if err := writer.Flush(); err != nil {
		return TransferResult{Error: fmt.Sprintf("failed to flush local file %s: %v", localPath, err)}
	}

	m.history.Add("download", srcPath)
	return TransferResult{Success: true, TransferID: id}
}

// CancelTransfer flags an active transfer for cancellation. The flag is
// advisory: the caller learns the real outcome from the original upload or
// download call, which observes the flag at its next chunk boundary.
func (m *SFTPManager) CancelTransfer(id TransferID) OpResult {
	if err := m.tracker.RequestCancel(id); err != nil {
		return OpResult{Error: err.Error()}
	}
	fmt.Printf("Cancellation requested for transfer %s\n", id)
	return OpResult{Success: true, Message: "cancellation requested"}
}
