package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/netutil"

	"dscheirer.com/segd/digit"
)

// largest read a client can ask for in one go
const maxStreamRead = 4096

// pause after a failed accept that was not a shutdown
const acceptBackoff = 50 * time.Millisecond

// streamServer is the byte-stream side: every connection opens one
// digit.Session and speaks a line protocol over it.
//
//	read N          -> N digit bytes, then "\n"
//	write <bytes>   -> "OK <n>" or "ERR <msg>"
//	close           -> "OK", then the connection closes
type streamServer struct {
	rt       runtimeConfig
	listener net.Listener
	logger   flogger

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	active sync.WaitGroup
}

func newStreamServer(rt runtimeConfig) *streamServer {
	return &streamServer{
		rt:     rt,
		logger: &ThreadLogger{name: "Stream"},
		conns:  make(map[net.Conn]struct{}),
	}
}

func (s *streamServer) launch(addr string, maxSessions int) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "stream listen %s", addr)
	}
	if maxSessions > 0 {
		l = netutil.LimitListener(l, maxSessions)
	}
	s.listener = l
	s.logger.Printf("starting stream server on %s", l.Addr())

	s.active.Add(1)
	go s.serve(l)
	return nil
}

func (s *streamServer) serve(l net.Listener) {
	defer s.active.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Printf("accept: %v, retrying in %v", err, acceptBackoff)
			s.rt.clock.Sleep(acceptBackoff)
			continue
		}
		if !s.track(conn) {
			conn.Close()
			return
		}
		s.active.Add(1)
		go func() {
			defer s.active.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *streamServer) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *streamServer) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *streamServer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// handleConn runs one session until the client closes or goes away.
func (s *streamServer) handleConn(conn io.ReadWriteCloser) {
	defer conn.Close()

	w := bufio.NewWriter(conn)
	sess, err := s.rt.device.Open()
	if err != nil {
		fmt.Fprintf(w, "ERR %v\n", err)
		w.Flush()
		return
	}
	defer sess.Close()
	s.logger.Printf("session %s opened", sess.ID())
	defer s.logger.Printf("session %s closed", sess.ID())

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				s.logger.Printf("session %s: %v", sess.ID(), err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		cmd, arg := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			cmd, arg = line[:i], line[i+1:]
		}

		switch cmd {
		case "read":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 {
				fmt.Fprintf(w, "ERR bad count %q\n", arg)
				break
			}
			if n > maxStreamRead {
				n = maxStreamRead
			}
			buf := make([]byte, n)
			n, err = sess.Read(buf)
			if err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				break
			}
			w.Write(buf[:n])
			w.WriteByte('\n')
		case "write":
			n, err := sess.Write([]byte(arg))
			if err != nil {
				if errors.Is(err, digit.ErrHardwareFault) {
					s.logger.Printf("session %s: %v", sess.ID(), err)
				}
				fmt.Fprintf(w, "ERR %v\n", err)
				break
			}
			fmt.Fprintf(w, "OK %d\n", n)
		case "close":
			w.WriteString("OK\n")
			w.Flush()
			return
		default:
			fmt.Fprintf(w, "ERR unknown command %q\n", cmd)
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

// stop closes the listener and every open connection, then waits for the
// sessions to close.
func (s *streamServer) stop() {
	s.mu.Lock()
	s.closed = true
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.active.Wait()
}

func runStreamService(rt runtimeConfig, srv *streamServer) {
	defer wg.Done()

	<-rt.comms.quit
	srv.logger.Println("quit from stream service")
	srv.stop()
}
