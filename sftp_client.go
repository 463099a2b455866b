package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// remoteFile is a handle to an open remote or local file during a transfer.
type remoteFile interface {
	io.ReadWriteCloser
}

// remoteSession is the subset of SFTP primitives the transfer layer needs.
// Production sessions wrap *sftp.Client; tests substitute fakes.
type remoteSession interface {
	ReadDir(path string) ([]os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	Open(path string) (remoteFile, error)
	Create(path string) (remoteFile, error)
	Remove(path string) error
	RemoveDirectory(path string) error
	Rename(oldPath, newPath string) error
	Mkdir(path string) error
	Getwd() (string, error)
	Close() error
}

// sftpSession pairs an SSH transport with the SFTP client running over it.
type sftpSession struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (s *sftpSession) ReadDir(path string) ([]os.FileInfo, error) { return s.sftp.ReadDir(path) }
func (s *sftpSession) Stat(path string) (os.FileInfo, error)      { return s.sftp.Stat(path) }
func (s *sftpSession) Remove(path string) error                   { return s.sftp.Remove(path) }
func (s *sftpSession) RemoveDirectory(path string) error          { return s.sftp.RemoveDirectory(path) }
func (s *sftpSession) Rename(oldPath, newPath string) error       { return s.sftp.Rename(oldPath, newPath) }
func (s *sftpSession) Mkdir(path string) error                    { return s.sftp.Mkdir(path) }
func (s *sftpSession) Getwd() (string, error)                     { return s.sftp.Getwd() }

func (s *sftpSession) Open(path string) (remoteFile, error) {
	return s.sftp.Open(path)
}

func (s *sftpSession) Create(path string) (remoteFile, error) {
	return s.sftp.Create(path)
}

// Close tears down the SFTP client first, then the SSH transport under it.
func (s *sftpSession) Close() error {
	var firstErr error
	if s.sftp != nil {
		if err := s.sftp.Close(); err != nil {
			firstErr = err
		}
	}
	if s.ssh != nil {
		if err := s.ssh.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dialFunc establishes a remote session for the given endpoint parameters.
type dialFunc func(params ConnParams, cfg SFTPConfig) (remoteSession, error)

// dialSFTP connects to the SSH server and starts an SFTP subsystem over it,
// with packet size and concurrency tuned for throughput.
func dialSFTP(params ConnParams, cfg SFTPConfig) (remoteSession, error) {
	sshConfig := &ssh.ClientConfig{
		User:            params.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // For now, accept all host keys
		Timeout:         time.Duration(cfg.ConnectTimeoutSeconds) * time.Second,
	}

	if params.Password != "" {
		sshConfig.Auth = append(sshConfig.Auth, ssh.Password(params.Password))
	}

	if params.KeyPath != "" {
		key, err := loadPrivateKey(params.KeyPath)
		if err != nil {
			fmt.Printf("Warning: Failed to load SSH key from %s: %v\n", params.KeyPath, err)
		} else {
			sshConfig.Auth = append(sshConfig.Auth, ssh.PublicKeys(key))
		}
	}

	// No explicit credentials: try ssh-agent, then default key locations
	if len(sshConfig.Auth) == 0 {
		if agentAuth, err := sshAgentAuth(); err == nil {
			sshConfig.Auth = append(sshConfig.Auth, agentAuth)
		}

		defaultKeys := []string{
			os.ExpandEnv("$HOME/.ssh/id_rsa"),
			os.ExpandEnv("$HOME/.ssh/id_ed25519"),
			os.ExpandEnv("$HOME/.ssh/id_ecdsa"),
		}
		for _, keyPath := range defaultKeys {
			if key, err := loadPrivateKey(keyPath); err == nil {
				sshConfig.Auth = append(sshConfig.Auth, ssh.PublicKeys(key))
				break
			}
		}
	}

	port := params.Port
	if port == 0 {
		port = DefaultSFTPPort
	}

	address := fmt.Sprintf("%s:%d", params.Host, port)
	client, err := ssh.Dial("tcp", address, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	// Larger packets and concurrent in-flight requests help a lot on
	// high-latency links; MaxPacketUnchecked bypasses the 32KB safety check
	// since modern SFTP servers support larger packets.
	opts := []sftp.ClientOption{
		sftp.MaxPacketUnchecked(cfg.MaxPacketSize),
		sftp.MaxConcurrentRequestsPerFile(cfg.ConcurrentRequests),
	}
	if cfg.UseConcurrentIO {
		opts = append(opts, sftp.UseConcurrentReads(true))
		opts = append(opts, sftp.UseConcurrentWrites(true))
	}

	sftpClient, err := sftp.NewClient(client, opts...)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start SFTP subsystem: %w", err)
	}

	return &sftpSession{ssh: client, sftp: sftpClient}, nil
}

// loadPrivateKey loads an SSH private key from file
func loadPrivateKey(keyPath string) (ssh.Signer, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}

	return signer, nil
}

// sshAgentAuth tries to get SSH agent authentication
func sshAgentAuth() (ssh.AuthMethod, error) {
	authSock := os.Getenv("SSH_AUTH_SOCK")
	if authSock == "" {
		return nil, fmt.Errorf("SSH_AUTH_SOCK not set")
	}

	sshAgent, err := net.Dial("unix", authSock)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SSH agent: %w", err)
	}

	return ssh.PublicKeysCallback(agent.NewClient(sshAgent).Signers), nil
}
