// Package transport implements the best-effort datagram channel carrying
// setpoint packets. It is fire-and-forget: no acknowledgment, no
// retransmission, no ordering. Liveness comes from the sender repeating
// current state at a fixed rate.
package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// ErrSend indicates a failed datagram write. The caller's control state is
// unaffected; the next transmission tick retries with current state.
var ErrSend = errors.New("datagram send failed")

// UDPSender writes packets to a fixed destination address.
type UDPSender struct {
	conn   *net.UDPConn
	remote string
}

// NewUDPSender resolves host:port and opens a connected UDP socket to it.
func NewUDPSender(host string, port int) (*UDPSender, error) {
	remote := net.JoinHostPort(host, strconv.Itoa(port))
	addr, err := net.ResolveUDPAddr("udp", remote)
	if err != nil {
		return nil, fmt.Errorf("resolving destination '%s': %w", remote, err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dialing '%s': %w", remote, err)
	}

	return &UDPSender{conn: conn, remote: remote}, nil
}

// Send writes one datagram. Errors wrap ErrSend so callers can classify
// them without retaining the sender type.
func (s *UDPSender) Send(buf []byte) error {
	if _, err := s.conn.Write(buf); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSend, s.remote, err)
	}
	return nil
}

// RemoteAddr returns the configured destination as host:port.
func (s *UDPSender) RemoteAddr() string {
	return s.remote
}

// Close releases the socket. The sender cannot be reused afterwards.
func (s *UDPSender) Close() error {
	return s.conn.Close()
}

// UDPReceiver reads datagrams from a bound local address. Used by the
// monitor tool and by tests; the sender side never reads.
type UDPReceiver struct {
	conn *net.UDPConn
}

// ListenUDP binds a UDP socket on addr ("host:port", port 0 for ephemeral).
func ListenUDP(addr string) (*UDPReceiver, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolving listen address '%s': %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("binding '%s': %w", addr, err)
	}

	return &UDPReceiver{conn: conn}, nil
}

// Receive reads one datagram into buf, waiting at most timeout. On timeout
// the returned error satisfies os.ErrDeadlineExceeded, which lets a polling
// loop check for cancellation between reads.
func (r *UDPReceiver) Receive(buf []byte, timeout time.Duration) (int, net.Addr, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, nil, err
	}
	return r.conn.ReadFrom(buf)
}

// LocalAddr returns the bound address, useful when listening on port 0.
func (r *UDPReceiver) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

// Close releases the socket.
func (r *UDPReceiver) Close() error {
	return r.conn.Close()
}
