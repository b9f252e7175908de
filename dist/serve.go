package dist

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"net"

	"github.com/coder/websocket"
)

// Serve accepts worker connections on lis and plugs each one into sched as
// a remote worker. The listener is closed once the job completes; Serve
// then returns nil.
func Serve(lis net.Listener, sched *Scheduler) error {
	go func() {
		<-sched.Done()
		lis.Close()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			select {
			case <-sched.Done():
				return nil
			default:
			}
			return fmt.Errorf("dist: accept: %w", err)
		}

		go func() {
			defer conn.Close()
			if err := handleConn(conn, sched); err != nil {
				log.Printf("worker %s: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}

// handleConn reads the worker's hello and then drives it with tiles until
// the job runs out of work or the worker fails.
func handleConn(conn net.Conn, sched *Scheduler) error {
	dec := gob.NewDecoder(conn)
	enc := gob.NewEncoder(conn)

	var hello helloMsg
	if err := dec.Decode(&hello); err != nil {
		return fmt.Errorf("dist: read hello: %w", err)
	}
	log.Printf("worker %s connected from %s (%d procs)", hello.WorkerID, conn.RemoteAddr(), hello.Procs)

	return sched.Run(&remoteWorker{id: hello.WorkerID, enc: enc, dec: dec})
}

// DialWebsocket connects to a coordinator's websocket worker endpoint and
// returns the connection as a net.Conn speaking the same gob protocol as
// plain TCP.
func DialWebsocket(ctx context.Context, url string) (net.Conn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dist: websocket dial %s: %w", url, err)
	}
	return websocket.NetConn(ctx, c, websocket.MessageBinary), nil
}
