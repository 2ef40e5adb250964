// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sshserver runs a minimal in-process ssh server for tests.
// Every exec request is answered by a handler instead of a shell.
package sshserver

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"sync"

	. "github.com/black-desk/lib/go/errwrap"
	"golang.org/x/crypto/ssh"
)

// Handler answers the command of one exec request.
// It returns the exit status sent back to the client.
type Handler func(command string, stdout, stderr io.Writer) uint32

type Server struct {
	listener net.Listener
	config   *ssh.ServerConfig
	handler  Handler
	hostKey  ssh.Signer
	wg       sync.WaitGroup

	mu       sync.Mutex
	commands []string
}

// Start listens on a random loopback port.
// A password of "" disables client authentication.
func Start(user, password string, handler Handler) (ret *Server, err error) {
	defer Wrap(&err, "start test ssh server")

	var key ed25519.PrivateKey
	_, key, err = ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return
	}

	s := &Server{handler: handler}
	s.hostKey, err = ssh.NewSignerFromKey(key)
	if err != nil {
		return
	}

	s.config = &ssh.ServerConfig{NoClientAuth: password == ""}
	if password != "" {
		s.config.PasswordCallback = func(
			meta ssh.ConnMetadata, pass []byte,
		) (*ssh.Permissions, error) {
			if meta.User() == user && string(pass) == password {
				return nil, nil
			}
			return nil, errors.New("access denied.")
		}
	}
	s.config.AddHostKey(s.hostKey)

	s.listener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return
	}

	s.wg.Add(1)
	go s.accept()

	ret = s
	return
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) HostKey() ssh.PublicKey {
	return s.hostKey.PublicKey()
}

// Commands returns every command received so far.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.commands...)
}

func (s *Server) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) accept() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	sconn, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		return
	}
	defer sconn.Close()

	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			newCh.Reject(ssh.UnknownChannelType, "only sessions are supported")
			continue
		}

		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		go s.session(ch, chReqs)
	}
}

func (s *Server) session(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()

	for req := range reqs {
		if req.Type != "exec" {
			if req.WantReply {
				req.Reply(false, nil)
			}
			continue
		}

		var payload struct{ Command string }
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
			req.Reply(false, nil)
			continue
		}
		req.Reply(true, nil)

		s.mu.Lock()
		s.commands = append(s.commands, payload.Command)
		s.mu.Unlock()

		status := s.handler(payload.Command, ch, ch.Stderr())

		ch.SendRequest("exit-status", false,
			ssh.Marshal(struct{ Status uint32 }{status}))
		return
	}
}
