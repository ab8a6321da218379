package bus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"

	"go.uber.org/zap"
)

// socketTransport is the preferred cross-process channel: a Unix domain
// socket in the data directory. The first process to bind becomes the hub
// and relays every frame to all connected peers; later processes connect as
// clients. Frames are newline-delimited JSON envelopes.
//
// If the hub process exits, connected clients lose cross-process delivery
// until a new process binds the socket; local delivery is unaffected.
type socketTransport struct {
	log  *zap.Logger
	recv chan Envelope
	done chan struct{}
	once sync.Once

	mu    sync.Mutex
	ln    net.Listener          // hub mode
	peers map[net.Conn]struct{} // hub mode
	conn  net.Conn              // client mode
}

// openSocketTransport binds path as hub, or connects to an existing hub.
// A stale socket file (left by a crashed hub) is removed and rebound.
func openSocketTransport(path string, log *zap.Logger) (*socketTransport, error) {
	t := &socketTransport{
		log:   log,
		recv:  make(chan Envelope, 16),
		done:  make(chan struct{}),
		peers: make(map[net.Conn]struct{}),
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		if conn, derr := net.Dial("unix", path); derr == nil {
			t.conn = conn
			go t.readConn(conn, nil)
			return t, nil
		}
		// Nobody is listening: the socket file is stale.
		if rerr := os.Remove(path); rerr != nil {
			return nil, fmt.Errorf("bind bus socket: %w", err)
		}
		ln, err = net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("rebind bus socket: %w", err)
		}
	}

	t.ln = ln
	go t.acceptLoop()
	return t, nil
}

func (t *socketTransport) Send(env Envelope) error {
	line, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	line = append(line, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		_, err := t.conn.Write(line)
		return err
	}
	t.relayLocked(line, nil)
	return nil
}

func (t *socketTransport) Receive() <-chan Envelope { return t.recv }

func (t *socketTransport) Close() error {
	t.once.Do(func() {
		close(t.done)
		t.mu.Lock()
		if t.ln != nil {
			t.ln.Close()
		}
		if t.conn != nil {
			t.conn.Close()
		}
		for c := range t.peers {
			c.Close()
		}
		t.mu.Unlock()
	})
	return nil
}

func (t *socketTransport) acceptLoop() {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			return // listener closed
		}
		t.mu.Lock()
		t.peers[conn] = struct{}{}
		t.mu.Unlock()
		go t.readConn(conn, conn)
	}
}

// readConn consumes frames from one connection. In hub mode (from != nil)
// each frame is also relayed to every other peer so clients hear each other.
func (t *socketTransport) readConn(conn net.Conn, from net.Conn) {
	defer func() {
		t.mu.Lock()
		delete(t.peers, conn)
		t.mu.Unlock()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()

		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			t.log.Warn("malformed bus frame", zap.Error(err))
			continue
		}

		if from != nil {
			relay := append(append([]byte(nil), line...), '\n')
			t.mu.Lock()
			t.relayLocked(relay, from)
			t.mu.Unlock()
		}

		select {
		case t.recv <- env:
		case <-t.done:
			return
		}
	}
}

// relayLocked writes line to every hub peer except skip, dropping peers
// whose connection has broken. Callers hold t.mu.
func (t *socketTransport) relayLocked(line []byte, skip net.Conn) {
	for c := range t.peers {
		if c == skip {
			continue
		}
		if _, err := c.Write(line); err != nil {
			t.log.Debug("dropping bus peer", zap.Error(err))
			c.Close()
			delete(t.peers, c)
		}
	}
}
