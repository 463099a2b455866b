package main

// Wails-bound SFTP surface. Every method returns a structured result; errors
// never escape to the frontend as anything but a field on the result.
// Progress for uploads/downloads is not returned here - it arrives through
// the "sftp-transfer-progress" runtime event.

// SFTPListFiles lists a remote directory. dirPath may be "", "~" or "~/...".
func (a *App) SFTPListFiles(params ConnParams, dirPath string, showHidden bool) ListResult {
	return a.sftp.ListFiles(params, dirPath, ListOptions{ShowHidden: showHidden})
}

// SFTPPreviewFile returns a text, base64-binary or too-large preview of a
// remote file.
func (a *App) SFTPPreviewFile(params ConnParams, filePath string) PreviewResult {
	return a.sftp.PreviewFile(params, filePath)
}

// SFTPUploadFile uploads a local file to the remote path. Blocks until the
// transfer reaches a terminal state and reports which one.
func (a *App) SFTPUploadFile(params ConnParams, localPath, remotePath string) TransferResult {
	return a.sftp.UploadFile(params, localPath, remotePath, TransferOptions{})
}

// SFTPDownloadFile downloads a remote file to the local path.
func (a *App) SFTPDownloadFile(params ConnParams, remotePath, localPath string) TransferResult {
	return a.sftp.DownloadFile(params, remotePath, localPath, TransferOptions{})
}

// SFTPCancelTransfer requests cancellation of an in-flight transfer. The
// original upload/download call reports whether cancellation actually won
// the race against completion.
func (a *App) SFTPCancelTransfer(transferID string) OpResult {
	return a.sftp.CancelTransfer(TransferID(transferID))
}

// SFTPDeleteFile deletes a remote file, or a directory tree when
// isDirectory is set.
func (a *App) SFTPDeleteFile(params ConnParams, filePath string, isDirectory bool) OpResult {
	return a.sftp.DeleteFile(params, filePath, isDirectory)
}

// SFTPRenameFile renames or moves a remote file or directory.
func (a *App) SFTPRenameFile(params ConnParams, oldPath, newPath string) OpResult {
	return a.sftp.RenameFile(params, oldPath, newPath)
}

// SFTPCreateFolder creates a remote directory.
func (a *App) SFTPCreateFolder(params ConnParams, dirPath string) OpResult {
	return a.sftp.CreateFolder(params, dirPath)
}

// SFTPCreateFile creates a remote file with the given content.
func (a *App) SFTPCreateFile(params ConnParams, filePath, content string) OpResult {
	return a.sftp.CreateFile(params, filePath, content)
}

// SFTPActiveTransferCount reports how many transfers are currently running.
func (a *App) SFTPActiveTransferCount() int {
	return a.sftp.tracker.ActiveCount()
}

// SFTPTransferHistory returns the recorded remote operations.
func (a *App) SFTPTransferHistory() []HistoryEntry {
	return a.sftp.History()
}

// SFTPClearTransferHistory drops the recorded remote operations.
func (a *App) SFTPClearTransferHistory() {
	a.sftp.ClearHistory()
}
