package pjlinktest

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/pjlink/protocol"
)

// Config configures a test projector.
type Config struct {
	// Password enables digest authentication when non-empty.
	Password string

	// Latency is slept before answering each command.
	Latency time.Duration

	// Inputs is the INST answer. Default: "11 21 31 32".
	Inputs string
}

// Server is an in-process PJLink projector listening on 127.0.0.1.
type Server struct {
	listener net.Listener

	mu             sync.Mutex
	password       string
	latency        time.Duration
	inputs         string
	power          string
	input          string
	avmute         string
	lamp           string
	errorStatus    string
	name           string
	overrides      map[string]string
	malformed      bool
	refuseGreeting bool
	dropAfter      int // commands per connection; 0 means never
	closed         bool
	conns          map[net.Conn]struct{}

	connections int
	commands    int

	wg sync.WaitGroup
}

// NewServer starts a test projector on an ephemeral 127.0.0.1 port. It
// panics when the listener cannot be created, matching httptest behavior.
func NewServer(cfg Config) *Server {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(fmt.Sprintf("pjlinktest: failed to listen: %v", err))
	}

	if cfg.Inputs == "" {
		cfg.Inputs = "11 21 31 32"
	}

	s := &Server{
		listener:    ln,
		password:    cfg.Password,
		latency:     cfg.Latency,
		inputs:      cfg.Inputs,
		power:       "0",
		input:       "31",
		avmute:      "30",
		lamp:        "812 1",
		errorStatus: "000000",
		name:        "Test Projector",
		overrides:   make(map[string]string),
		conns:       make(map[net.Conn]struct{}),
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return s
}

// Host returns the server's listen host.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.listener.Addr().String())
	return host
}

// Port returns the server's listen port.
func (s *Server) Port() int {
	_, portStr, _ := net.SplitHostPort(s.listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return port
}

// Target returns host:port.
func (s *Server) Target() string {
	return s.listener.Addr().String()
}

// Close stops the listener and drops every live connection.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	_ = s.listener.Close()
	s.wg.Wait()
}

// DropConnections closes every live connection while keeping the listener
// up, simulating a device that reboots mid-session.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
}

// Connections returns how many connections the server has accepted.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

// Commands returns how many command lines the server has received.
func (s *Server) Commands() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands
}

// SetResponse overrides the answer value for a command name, e.g.
// SetResponse("POWR", "ERR3"). An empty value removes the override.
func (s *Server) SetResponse(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.overrides, name)
		return
	}
	s.overrides[name] = value
}

// SetLatency delays every answer by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// SetMalformed makes the server answer every command with a line that
// violates the response grammar.
func (s *Server) SetMalformed(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformed = on
}

// RefuseConnections makes the server greet new connections with
// "PJLINK ERRA" and drop them.
func (s *Server) RefuseConnections(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refuseGreeting = on
}

// DisconnectAfter drops each connection without answering once it has
// received n commands. Zero disables.
func (s *Server) DisconnectAfter(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropAfter = n
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.connections++
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	s.mu.Lock()
	refuse := s.refuseGreeting
	password := s.password
	s.mu.Unlock()

	if refuse {
		_, _ = conn.Write([]byte("PJLINK ERRA\r"))
		return
	}

	var key string
	if password != "" {
		// #nosec G404 -- test server challenge, not a production secret.
		key = fmt.Sprintf("%08x", rand.Uint32())
		_, _ = fmt.Fprintf(conn, "PJLINK 1 %s\r", key)
	} else {
		_, _ = conn.Write([]byte("PJLINK 0\r"))
	}

	reader := bufio.NewReader(conn)
	served := 0
	for {
		line, err := reader.ReadBytes('\r')
		if err != nil {
			return
		}

		s.mu.Lock()
		s.commands++
		latency := s.latency
		malformed := s.malformed
		dropAfter := s.dropAfter
		s.mu.Unlock()

		served++
		if dropAfter > 0 && served >= dropAfter {
			// Drop without answering; the client sees a dead socket.
			return
		}

		if latency > 0 {
			time.Sleep(latency)
		}

		reply := s.answer(string(line), key, password)
		if malformed {
			reply = "this is not pjlink\r"
		}
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}

// answer produces the response line (CR-terminated) for one command line.
func (s *Server) answer(line, key, password string) string {
	line = strings.TrimSuffix(line, "\r")

	if password != "" {
		if len(line) < protocol.DigestHexLength {
			return "%1PJLK=ERRA\r"
		}
		digest := line[:protocol.DigestHexLength]
		line = line[protocol.DigestHexLength:]
		if digest != protocol.DigestHash(key, password) {
			header := "%1" + commandName(line)
			return header + "=ERRA\r"
		}
	}

	// %<class><NAME> <param>
	if len(line) < 8 || line[0] != '%' {
		return "%1PJLK=ERR1\r"
	}
	class := line[1:2]
	name := line[2:6]
	param := line[7:]
	header := "%" + class + name

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.overrides[name]; ok {
		return header + "=" + v + "\r"
	}

	switch name {
	case protocol.NamePower:
		if param == "?" {
			return header + "=" + s.power + "\r"
		}
		if param != "0" && param != "1" {
			return header + "=ERR2\r"
		}
		s.power = param
		return header + "=OK\r"

	case protocol.NameInput:
		if param == "?" {
			return header + "=" + s.input + "\r"
		}
		for _, code := range strings.Fields(s.inputs) {
			if param == code {
				s.input = param
				return header + "=OK\r"
			}
		}
		return header + "=ERR2\r"

	case protocol.NameAVMute:
		if param == "?" {
			return header + "=" + s.avmute + "\r"
		}
		switch param {
		case "11", "21", "31", "30":
			s.avmute = param
			return header + "=OK\r"
		}
		return header + "=ERR2\r"

	case protocol.NameLamp:
		return header + "=" + s.lamp + "\r"

	case protocol.NameErrorStatus:
		return header + "=" + s.errorStatus + "\r"

	case protocol.NameInputList:
		return header + "=" + s.inputs + "\r"

	case protocol.NameDeviceName:
		return header + "=" + s.name + "\r"

	case protocol.NameClass:
		return header + "=2\r"

	case protocol.NameFreeze:
		if class != "2" {
			return header + "=ERR1\r"
		}
		if param == "?" {
			return header + "=0\r"
		}
		return header + "=OK\r"

	default:
		return header + "=ERR1\r"
	}
}

// commandName extracts the 4-character command code from a command line,
// tolerating garbage.
func commandName(line string) string {
	if len(line) >= 6 && line[0] == '%' {
		return line[2:6]
	}
	return "PJLK"
}
