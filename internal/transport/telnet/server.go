// Package telnet serves the line-oriented text protocol over plain TCP,
// one goroutine per connection.
package telnet

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/forzalabs/connectfour-backend/internal/transport/session"
)

type Server struct {
	logger  *slog.Logger
	handler *session.Handler
}

func New(logger *slog.Logger, handler *session.Handler) *Server {
	return &Server{
		logger:  logger.With("component", "telnet"),
		handler: handler,
	}
}

// Start listens until ctx is canceled. Each accepted connection gets its
// own goroutine running the shared session loop.
func (that *Server) Start(ctx context.Context, port string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		netConn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			that.logger.Error("failed to accept connection", "error", err)
			continue
		}

		that.logger.Info("connection accepted", "remote", netConn.RemoteAddr().String())

		go that.handler.Handle(ctx, newConn(netConn))
	}
}

// conn adapts a net.Conn to the session.Conn interface. Writes are
// serialized so notifications from other goroutines never interleave
// mid-message with the session's own responses.
type conn struct {
	net    net.Conn
	reader *bufio.Reader

	writeMu sync.Mutex
}

func newConn(netConn net.Conn) *conn {
	return &conn{
		net:    netConn,
		reader: bufio.NewReader(netConn),
	}
}

func (that *conn) ReadLine() (string, error) {
	line, err := that.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read line: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (that *conn) WriteString(s string) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if _, err := that.net.Write([]byte(s)); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}

	return nil
}

func (that *conn) Close() error {
	return that.net.Close()
}
