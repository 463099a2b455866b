package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// fakeFileInfo implements os.FileInfo for fake sessions.
type fakeFileInfo struct {
	name string
	size int64
	dir  bool
	mod  time.Time
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() os.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return f.mod }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() interface{}   { return nil }

// fakeReadFile serves the stored content of a fake remote file.
type fakeReadFile struct {
	reader *bytes.Reader
}

func (f *fakeReadFile) Read(p []byte) (int, error)  { return f.reader.Read(p) }
func (f *fakeReadFile) Write(p []byte) (int, error) { return 0, fmt.Errorf("file opened for reading") }
func (f *fakeReadFile) Close() error                { return nil }

// fakeWriteFile appends written data into the session's file map.
type fakeWriteFile struct {
	session  *fakeSession
	path     string
	writeErr error
}

func (f *fakeWriteFile) Read(p []byte) (int, error) { return 0, io.EOF }

func (f *fakeWriteFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	f.session.files[f.path] = append(f.session.files[f.path], p...)
	return len(p), nil
}

func (f *fakeWriteFile) Close() error { return nil }

// fakeSession is an in-memory remoteSession for tests.
type fakeSession struct {
	mu       sync.Mutex
	wd       string
	files    map[string][]byte
	dirs     map[string][]os.FileInfo
	removed  []string
	rmdirs   []string
	renames  [][2]string
	mkdirs   []string
	writeErr error
	closed   bool
}

func newFakeSession(wd string) *fakeSession {
	return &fakeSession{
		wd:    wd,
		files: make(map[string][]byte),
		dirs:  make(map[string][]os.FileInfo),
	}
}

func (s *fakeSession) ReadDir(path string) ([]os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos, ok := s.dirs[path]
	if !ok {
		return nil, fmt.Errorf("no such directory: %s", path)
	}
	return infos, nil
}

func (s *fakeSession) Stat(path string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content, ok := s.files[path]; ok {
		return fakeFileInfo{name: pathBase(path), size: int64(len(content))}, nil
	}
	if _, ok := s.dirs[path]; ok {
		return fakeFileInfo{name: pathBase(path), dir: true}, nil
	}
	return nil, fmt.Errorf("no such file: %s", path)
}

func (s *fakeSession) Open(path string) (remoteFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return &fakeReadFile{reader: bytes.NewReader(content)}, nil
}

func (s *fakeSession) Create(path string) (remoteFile, error) {
	s.mu.Lock()
	s.files[path] = nil
	writeErr := s.writeErr
	s.mu.Unlock()
	return &fakeWriteFile{session: s, path: path, writeErr: writeErr}, nil
}

func (s *fakeSession) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.removed = append(s.removed, path)
	return nil
}

func (s *fakeSession) RemoveDirectory(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirs, path)
	s.rmdirs = append(s.rmdirs, path)
	return nil
}

func (s *fakeSession) Rename(oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content, ok := s.files[oldPath]; ok {
		delete(s.files, oldPath)
		s.files[newPath] = content
	}
	s.renames = append(s.renames, [2]string{oldPath, newPath})
	return nil
}

func (s *fakeSession) Mkdir(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[path] = nil
	s.mkdirs = append(s.mkdirs, path)
	return nil
}

func (s *fakeSession) Getwd() (string, error) {
	return s.wd, nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func fakeInfos(infos ...fakeFileInfo) []os.FileInfo {
	out := make([]os.FileInfo, len(infos))
	for i, info := range infos {
		out[i] = info
	}
	return out
}

func pathBase(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

// fakeDialer counts connect attempts and hands out fake sessions.
type fakeDialer struct {
	mu       sync.Mutex
	calls    int
	err      error
	delay    time.Duration
	wd       string
	sessions []*fakeSession
}

func (d *fakeDialer) dial(params ConnParams, cfg SFTPConfig) (remoteSession, error) {
	d.mu.Lock()
	d.calls++
	err := d.err
	delay := d.delay
	d.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}

	session := newFakeSession(d.wd)
	d.mu.Lock()
	d.sessions = append(d.sessions, session)
	d.mu.Unlock()
	return session, nil
}

func (d *fakeDialer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDialer) setError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *fakeDialer) lastSession() *fakeSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sessions) == 0 {
		return nil
	}
	return d.sessions[len(d.sessions)-1]
}

// testSFTPConfig returns a small-buffer config so transfers take several
// chunks even with tiny test files.
func testSFTPConfig() SFTPConfig {
	cfg := SFTPConfig{BufferSize: 1024}
	return cfg.withDefaults()
}

func newTestManager(dialer *fakeDialer) *SFTPManager {
	return newSFTPManagerWithDialer(testSFTPConfig, dialer.dial)
}

func testParams() ConnParams {
	return ConnParams{Host: "example.com", Port: 22, Username: "alice"}
}
