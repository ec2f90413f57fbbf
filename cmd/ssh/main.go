package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"

	"github.com/tomz197/typesurvivors/internal/config"
	"github.com/tomz197/typesurvivors/internal/draw"
	"github.com/tomz197/typesurvivors/internal/logging"
	"github.com/tomz197/typesurvivors/internal/loop"
	"github.com/tomz197/typesurvivors/internal/object"
	"github.com/tomz197/typesurvivors/internal/profile"
	"github.com/tomz197/typesurvivors/internal/session"
	"github.com/tomz197/typesurvivors/internal/words"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	shutdownGrace = 15 * time.Second
)

// server holds what every SSH session shares.
type server struct {
	hub     *session.Hub
	cfg     *config.Config
	words   []object.Word
	storage profile.Storage
	log     *log.Logger
}

func main() {
	logger, err := logging.New(os.Stderr, os.Getenv("LOG_LEVEL"), "ssh")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	cfg, err := config.Load(os.Getenv("TYPESURVIVORS_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	wordList, err := words.LoadOrDefault(os.Getenv("TYPESURVIVORS_WORDS"))
	if err != nil {
		logger.Fatal("failed to load words", "err", err)
	}

	srv := &server{
		hub:   session.NewHub(logger),
		cfg:   cfg,
		words: wordList,
		log:   logger,
	}
	if m, err := profile.OpenStorage(); err != nil {
		logger.Warn("profile storage unavailable, progress will not be saved", "err", err)
	} else {
		srv.storage = m
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "words", len(wordList))

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			wishlogging.Middleware(),
		),
		// TCP_NODELAY keeps keystrokes from being batched.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down", "players", srv.hub.Count())

	// Players get a countdown screen; wait for them to leave before closing.
	srv.hub.Shutdown(shutdownGrace)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one game session per SSH connection.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := srv.log.With("remote", sess.RemoteAddr().String())
		logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"cols", pty.Window.Width, "rows", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		s, err := loop.NewSession(srv.hub, bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc:   sizeTracker.getSize,
			Username:       sess.User(),
			Config:         srv.cfg,
			Words:          srv.words,
			Storage:        srv.storage,
			Logger:         logger,
			DisconnectIdle: true,
		})
		if err != nil {
			logger.Error("session setup failed", "err", err)
			fmt.Fprintln(sess, "Error: could not start the game.")
			return
		}
		if err := s.Run(); err != nil {
			logger.Warn("game error", "user", sess.User(), "err", err)
		}

		logger.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
