package source

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHPeer runs a remote command over SSH (typically the peer's own
// zwzniff proxy/generator, reachable only via an SSH tunnel) and exposes
// its stdout as a ReaderWithTimeout. SSH does not support read deadlines on
// its pipes, so SetReadDeadline is a no-op, matching the teacher's own
// sshReader.
type SSHPeer struct {
	client  *ssh.Client
	session *ssh.Session
	stdout  io.Reader
	stdin   io.WriteCloser
}

// DialSSHPeer connects to addr, authenticates as user with password, and
// starts remoteCmd (expected to write a PTI or Zniffer byte stream to its
// stdout).
func DialSSHPeer(addr, user, password, remoteCmd string) (*SSHPeer, error) {
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("source: ssh dial %s: %w", addr, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("source: ssh new session: %w", err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	if err := session.Start(remoteCmd); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("source: start remote command %q: %w", remoteCmd, err)
	}

	return &SSHPeer{client: client, session: session, stdout: stdout, stdin: stdin}, nil
}

func (s *SSHPeer) Read(b []byte) (int, error) {
	return s.stdout.Read(b)
}

func (s *SSHPeer) Write(b []byte) (int, error) {
	return s.stdin.Write(b)
}

// SetReadDeadline is a no-op: SSH session pipes have no deadline support.
// A read from a stalled peer blocks until data arrives or the session
// closes; the client config's Timeout only bounds the initial dial.
func (s *SSHPeer) SetReadDeadline(time.Time) error {
	return nil
}

func (s *SSHPeer) Close() error {
	s.session.Close()
	return s.client.Close()
}
