package setpoint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"time"
)

const (
	headerMagic uint64 = 0xDEADBEEFDEADBEEF

	headerSize  = 8
	payloadSize = 8 + 4 + 4 + 4 + 16*8
	crcSize     = 4

	// PacketSize is the fixed length of an encoded packet in bytes,
	// identical for every mode.
	PacketSize = headerSize + payloadSize + crcSize
)

// ErrMalformedPacket indicates a buffer that cannot be decoded: wrong
// length, bad header, CRC mismatch, or an unknown mode tag. Out-of-range
// numeric values are not a decode error.
var ErrMalformedPacket = errors.New("malformed setpoint packet")

// Marshal encodes the packet into a fresh PacketSize-byte buffer. Thrust is
// clamped to [0, 1]; all other values are written as-is, the Timestamp
// included, so encoding is deterministic. Marshal has no shared state and
// is safe for concurrent use.
func (p Packet) Marshal() []byte {
	buf := make([]byte, PacketSize)
	binary.BigEndian.PutUint64(buf[:headerSize], headerMagic)

	payload := buf[headerSize : headerSize+payloadSize]

	binary.BigEndian.PutUint64(payload[0:8], uint64(p.Timestamp.UnixNano()))
	binary.BigEndian.PutUint32(payload[8:12], uint32(p.Mode))
	binary.BigEndian.PutUint32(payload[12:16], boolToUint32(p.Enable))
	binary.BigEndian.PutUint32(payload[16:20], boolToUint32(p.YawControl))

	off := 20
	for _, v := range []float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Velocity.X, p.Velocity.Y, p.Velocity.Z,
		p.Acceleration.X, p.Acceleration.Y, p.Acceleration.Z,
		p.Attitude.Roll, p.Attitude.Pitch, p.Attitude.Yaw, clampThrust(p.Attitude.Thrust),
		p.AttitudeRate.X, p.AttitudeRate.Y, p.AttitudeRate.Z,
	} {
		binary.BigEndian.PutUint64(payload[off:off+8], math.Float64bits(v))
		off += 8
	}

	crc := crc32.ChecksumIEEE(payload)
	binary.BigEndian.PutUint32(buf[headerSize+payloadSize:], crc)
	return buf
}

// Unmarshal decodes a fixed-size buffer into a Packet. It returns an error
// wrapping ErrMalformedPacket if the buffer cannot be a valid packet.
func Unmarshal(buf []byte) (Packet, error) {
	if len(buf) != PacketSize {
		return Packet{}, fmt.Errorf("%w: length %d, want %d", ErrMalformedPacket, len(buf), PacketSize)
	}
	if magic := binary.BigEndian.Uint64(buf[:headerSize]); magic != headerMagic {
		return Packet{}, fmt.Errorf("%w: bad header 0x%016x", ErrMalformedPacket, magic)
	}

	payload := buf[headerSize : headerSize+payloadSize]
	wantCRC := binary.BigEndian.Uint32(buf[headerSize+payloadSize:])
	if crc := crc32.ChecksumIEEE(payload); crc != wantCRC {
		return Packet{}, fmt.Errorf("%w: CRC mismatch, got 0x%08x, want 0x%08x", ErrMalformedPacket, wantCRC, crc)
	}

	mode := Mode(binary.BigEndian.Uint32(payload[8:12]))
	if !mode.Valid() {
		return Packet{}, fmt.Errorf("%w: unknown mode tag 0x%x", ErrMalformedPacket, uint32(mode))
	}

	var f [16]float64
	off := 20
	for i := range f {
		f[i] = math.Float64frombits(binary.BigEndian.Uint64(payload[off : off+8]))
		off += 8
	}

	return Packet{
		Timestamp:    time.Unix(0, int64(binary.BigEndian.Uint64(payload[0:8]))).UTC(),
		Mode:         mode,
		Enable:       binary.BigEndian.Uint32(payload[12:16]) != 0,
		YawControl:   binary.BigEndian.Uint32(payload[16:20]) != 0,
		Position:     Vector3{f[0], f[1], f[2]},
		Velocity:     Vector3{f[3], f[4], f[5]},
		Acceleration: Vector3{f[6], f[7], f[8]},
		Attitude:     Attitude{Roll: f[9], Pitch: f[10], Yaw: f[11], Thrust: f[12]},
		AttitudeRate: Vector3{f[13], f[14], f[15]},
	}, nil
}

func clampThrust(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
