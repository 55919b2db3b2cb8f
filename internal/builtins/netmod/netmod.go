// Package netmod is the "net" built-in module: WebSocket client and server
// access backed by gorilla/websocket. Grounded on the teacher's
// internal/network/websocket.go and websocket_server.go — an ID-keyed
// connection registry behind an RWMutex, a buffered per-connection message
// channel fed by a reader goroutine, and a polling WebSocketAccept rather
// than a callback-based handler — adapted here from Go-native
// *WebSocketConn/*WebSocketServer return values to string connection ids a
// script can hold and pass back into net.ws_send/net.ws_recv/net.ws_close,
// since a bare Go pointer has no meaning as a Sentra value.
package netmod

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sentra/internal/container"
	"sentra/internal/module"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/vm"
)

type wsConn struct {
	id       string
	conn     *websocket.Conn
	mu       sync.Mutex
	closed   bool
	messages chan []byte
}

type wsServer struct {
	id       string
	upgrader websocket.Upgrader
	server   *http.Server
	mu       sync.Mutex
	pending  []string
	clients  map[string]*wsConn
}

// registry is process-wide (one net module instance per Interp, same as
// every other built-in module cached by internal/module.Loader), guarded by
// its own mutex rather than the GIL since connection I/O blocks independent
// of bytecode execution.
type registry struct {
	mu      sync.Mutex
	conns   map[string]*wsConn
	servers map[string]*wsServer
	nextID  int64
}

func newRegistry() *registry {
	return &registry{conns: make(map[string]*wsConn), servers: make(map[string]*wsServer)}
}

func (r *registry) newID(prefix string) string {
	r.mu.Lock()
	r.nextID++
	n := r.nextID
	r.mu.Unlock()
	return prefix + "-" + time.Now().Format("150405") + "-" + itoa(n)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func none(ctx object.Ctx) *object.Object {
	return object.New(ctx.LookupType("none"), nil)
}

func (r *registry) readLoop(c *wsConn) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			close(c.messages)
			return
		}
		c.messages <- data
	}
}

// New builds the net module's export object against a fresh, process-local
// connection registry.
func New(ctx object.Ctx) (*object.Object, *object.Object) {
	r := newRegistry()
	mod := module.NewModule()
	mod.Attrs = map[string]*object.Object{
		"ws_dial":   vm.NewNative("net.ws_dial", r.wsDial),
		"ws_send":   vm.NewNative("net.ws_send", r.wsSend),
		"ws_recv":   vm.NewNative("net.ws_recv", r.wsRecv),
		"ws_close":  vm.NewNative("net.ws_close", r.wsClose),
		"ws_serve":  vm.NewNative("net.ws_serve", r.wsServe),
		"ws_accept": vm.NewNative("net.ws_accept", r.wsAccept),
		"ws_stop":   vm.NewNative("net.ws_stop", r.wsStop),
	}
	return mod, nil
}

func (r *registry) wsDial(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "net.ws_dial() takes exactly one argument (%d given)", len(args))
	}
	urlStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_dial() argument must be a str")
	}

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	conn, _, err := dialer.Dial(urlStr.Bytes, nil)
	if err != nil {
		return nil, ctx.Raise("IOError", "ws_dial %s: %s", urlStr.Bytes, err.Error())
	}

	c := &wsConn{id: r.newID("ws"), conn: conn, messages: make(chan []byte, 64)}
	r.mu.Lock()
	r.conns[c.id] = c
	r.mu.Unlock()
	go r.readLoop(c)

	return container.NewString(c.id), nil
}

func (r *registry) lookup(id string) (*wsConn, bool) {
	r.mu.Lock()
	c, ok := r.conns[id]
	r.mu.Unlock()
	return c, ok
}

func (r *registry) wsSend(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 2 {
		return nil, ctx.Raise("ArgError", "net.ws_send() takes exactly 2 arguments (%d given)", len(args))
	}
	idStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_send() connection id must be a str")
	}
	msg, ok := container.AsString(args[1])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_send() message must be a str")
	}
	c, ok := r.lookup(idStr.Bytes)
	if !ok {
		return nil, ctx.Raise("KeyError", "no websocket connection '%s'", idStr.Bytes)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ctx.Raise("IOError", "websocket connection '%s' is closed", idStr.Bytes)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg.Bytes)); err != nil {
		return nil, ctx.Raise("IOError", "ws_send: %s", err.Error())
	}
	return none(ctx), nil
}

func (r *registry) wsRecv(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 && len(args) != 2 {
		return nil, ctx.Raise("ArgError", "net.ws_recv() takes 1 or 2 arguments (%d given)", len(args))
	}
	idStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_recv() connection id must be a str")
	}
	timeout := 10 * time.Second
	if len(args) == 2 {
		secs, ok := numeric.AsFloat(args[1])
		if !ok {
			return nil, ctx.Raise("TypeError", "net.ws_recv() timeout must be numeric")
		}
		timeout = time.Duration(secs * float64(time.Second))
	}
	c, ok := r.lookup(idStr.Bytes)
	if !ok {
		return nil, ctx.Raise("KeyError", "no websocket connection '%s'", idStr.Bytes)
	}
	select {
	case data, ok := <-c.messages:
		if !ok {
			return nil, ctx.Raise("IOError", "websocket connection '%s' closed by peer", idStr.Bytes)
		}
		return container.NewString(string(data)), nil
	case <-time.After(timeout):
		return nil, ctx.Raise("IOError", "ws_recv timed out waiting on '%s'", idStr.Bytes)
	}
}

func (r *registry) wsClose(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "net.ws_close() takes exactly one argument (%d given)", len(args))
	}
	idStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_close() connection id must be a str")
	}
	r.mu.Lock()
	c, ok := r.conns[idStr.Bytes]
	delete(r.conns, idStr.Bytes)
	r.mu.Unlock()
	if !ok {
		return none(ctx), nil
	}
	c.mu.Lock()
	c.closed = true
	c.conn.Close()
	c.mu.Unlock()
	return none(ctx), nil
}

// wsServe starts an HTTP server upgrading every request on addr to a
// WebSocket, mirroring the teacher's WSServers registry. Incoming clients
// are queued for net.ws_accept rather than dispatched to a handler
// callback, the same polling shape as WebSocketAccept.
func (r *registry) wsServe(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "net.ws_serve() takes exactly one argument (%d given)", len(args))
	}
	addrStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_serve() address must be a str")
	}

	srv := &wsServer{
		id:       r.newID("wss"),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[string]*wsConn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		conn, err := srv.upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		c := &wsConn{id: r.newID("ws"), conn: conn, messages: make(chan []byte, 64)}
		r.mu.Lock()
		r.conns[c.id] = c
		r.mu.Unlock()
		srv.mu.Lock()
		srv.clients[c.id] = c
		srv.pending = append(srv.pending, c.id)
		srv.mu.Unlock()
		go r.readLoop(c)
	})

	srv.server = &http.Server{Addr: addrStr.Bytes, Handler: mux}
	go srv.server.ListenAndServe()

	r.mu.Lock()
	r.servers[srv.id] = srv
	r.mu.Unlock()

	return container.NewString(srv.id), nil
}

func (r *registry) wsAccept(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "net.ws_accept() takes exactly one argument (%d given)", len(args))
	}
	idStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_accept() server id must be a str")
	}
	r.mu.Lock()
	srv, ok := r.servers[idStr.Bytes]
	r.mu.Unlock()
	if !ok {
		return nil, ctx.Raise("KeyError", "no websocket server '%s'", idStr.Bytes)
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.pending) == 0 {
		return none(ctx), nil
	}
	clientID := srv.pending[0]
	srv.pending = srv.pending[1:]
	return container.NewString(clientID), nil
}

func (r *registry) wsStop(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "net.ws_stop() takes exactly one argument (%d given)", len(args))
	}
	idStr, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "net.ws_stop() server id must be a str")
	}
	r.mu.Lock()
	srv, ok := r.servers[idStr.Bytes]
	delete(r.servers, idStr.Bytes)
	r.mu.Unlock()
	if !ok {
		return none(ctx), nil
	}
	srv.server.Close()
	return none(ctx), nil
}
