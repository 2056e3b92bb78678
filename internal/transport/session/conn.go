// Package session implements the per-connection command loop shared by the
// telnet and websocket transports: login prompt, line parsing, dispatch to
// the lobby, and rendering of responses and cross-client notifications.
package session

import (
	"sync"

	"github.com/forzalabs/connectfour-backend/internal/usecase"
)

// Conn is one client connection, whatever the transport. WriteString must
// be safe to call from multiple goroutines: the client's own loop and any
// goroutine delivering a notification interleave on it.
type Conn interface {
	ReadLine() (string, error)
	WriteString(s string) error
	Close() error
}

// Table maps connected client ids to their connections and delivers lobby
// notifications to them. It satisfies the lobby's Notifier.
type Table struct {
	mu    sync.RWMutex
	conns map[int]Conn
}

func NewTable() *Table {
	return &Table{
		conns: make(map[int]Conn),
	}
}

func (that *Table) Add(playerID int, conn Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[playerID] = conn
}

func (that *Table) Remove(playerID int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, playerID)
}

// Notify renders the event for playerID and writes it out. Delivery is
// best-effort: a missing connection or a failed send is dropped, never
// surfaced to the client whose command triggered the event.
func (that *Table) Notify(playerID int, event usecase.Event) {
	that.mu.RLock()
	conn, ok := that.conns[playerID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	_ = conn.WriteString(renderEvent(playerID, event))
}
