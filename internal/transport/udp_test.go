package transport

import (
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

func TestSendReceive(t *testing.T) {
	recv, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP failed: %v", err)
	}
	defer recv.Close()

	port := recv.LocalAddr().(*net.UDPAddr).Port
	sender, err := NewUDPSender("127.0.0.1", port)
	if err != nil {
		t.Fatalf("NewUDPSender failed: %v", err)
	}
	defer sender.Close()

	want := setpoint.NewPacket(setpoint.AttitudeSetpoint{Yaw: 5, Thrust: 0.5}, true, time.Unix(0, 7).UTC())
	if err = sender.Send(want.Marshal()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	buf := make([]byte, setpoint.PacketSize+1)
	n, _, err := recv.Receive(buf, 5*time.Second)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}

	got, err := setpoint.Unmarshal(buf[:n])
	if err != nil {
		t.Fatalf("decoding received datagram: %v", err)
	}
	if got != want {
		t.Errorf("received packet mismatch\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestReceiveTimeout(t *testing.T) {
	recv, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP failed: %v", err)
	}
	defer recv.Close()

	buf := make([]byte, setpoint.PacketSize)
	_, _, err = recv.Receive(buf, 10*time.Millisecond)
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Errorf("Receive() error = %v, want deadline exceeded", err)
	}
}

func TestSendAfterCloseWrapsErrSend(t *testing.T) {
	recv, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP failed: %v", err)
	}
	defer recv.Close()

	sender, err := NewUDPSender("127.0.0.1", recv.LocalAddr().(*net.UDPAddr).Port)
	if err != nil {
		t.Fatalf("NewUDPSender failed: %v", err)
	}
	sender.Close()

	if err = sender.Send(make([]byte, setpoint.PacketSize)); !errors.Is(err, ErrSend) {
		t.Errorf("Send() after close = %v, want ErrSend", err)
	}
}
