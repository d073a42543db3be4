// Package setpoint defines the offboard control command structure and its
// fixed-size binary wire format.
//
// Wire layout (160 bytes, big-endian):
//   - Bytes 0-7:     magic header 0xDEADBEEFDEADBEEF
//   - Bytes 8-15:    timestamp (uint64, nanoseconds since epoch)
//   - Bytes 16-19:   setpoint mode (uint32)
//   - Bytes 20-23:   enable flag (uint32, 0 or 1)
//   - Bytes 24-27:   yaw control flag (uint32, 0 or 1)
//   - Bytes 28-51:   position (3 x float64)
//   - Bytes 52-75:   velocity (3 x float64)
//   - Bytes 76-99:   acceleration (3 x float64)
//   - Bytes 100-131: attitude (4 x float64: roll, pitch, yaw in degrees, thrust 0..1)
//   - Bytes 132-155: attitude rate (3 x float64)
//   - Bytes 156-159: CRC-32 (IEEE) of bytes 8-155
//
// The buffer length is the same for every mode. Fields outside the active
// mode's subset are present and zero-filled, so a receiver can dispatch on
// the mode tag alone without variable-length parsing.
package setpoint

import "time"

// Mode identifies which subset of the packet fields carries the command.
// The integer values are pinned by the wire format and must not change.
type Mode uint32

const (
	PositionVelocityNED             Mode = 0x01
	PositionVelocityAccelerationNED Mode = 0x02
	AccelerationNED                 Mode = 0x04
	AttitudeControl                 Mode = 0x08
	AttitudeRateControl             Mode = 0x10
	PositionLocalNED                Mode = 0x20
	PositionGlobalLatLon            Mode = 0x40
	VelocityNED                     Mode = 0x80
	VelocityBody                    Mode = 0x100
)

var modeNames = map[Mode]string{
	PositionVelocityNED:             "POSITION_VELOCITY_NED",
	PositionVelocityAccelerationNED: "POSITION_VELOCITY_ACCELERATION_NED",
	AccelerationNED:                 "ACCELERATION_NED",
	AttitudeControl:                 "ATTITUDE_CONTROL",
	AttitudeRateControl:             "ATTITUDE_RATE_CONTROL",
	PositionLocalNED:                "POSITION_LOCAL_NED",
	PositionGlobalLatLon:            "POSITION_GLOBAL_LATLON",
	VelocityNED:                     "VELOCITY_NED",
	VelocityBody:                    "VELOCITY_BODY",
}

// Valid reports whether m is a known mode tag.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "UNKNOWN_MODE"
}

// Vector3 is a three-component vector. Units depend on the field it
// occupies: meters for position, m/s for velocity, deg/s for attitude rate.
type Vector3 struct {
	X, Y, Z float64
}

// Attitude holds roll, pitch and yaw angles in degrees plus normalized
// thrust. Thrust is clamped to [0, 1] on encode.
type Attitude struct {
	Roll, Pitch, Yaw float64
	Thrust           float64
}

// Packet mirrors the wire layout. It is constructed fresh for every
// transmission and never mutated afterwards.
type Packet struct {
	Timestamp    time.Time
	Mode         Mode
	Enable       bool
	YawControl   bool
	Position     Vector3
	Velocity     Vector3
	Acceleration Vector3
	Attitude     Attitude
	AttitudeRate Vector3
}

// Setpoint is a mode-tagged command variant. Fields outside the variant are
// zero-filled when it is flattened to a Packet, so exactly one semantic
// subset carries values per packet. The set of variants is closed.
type Setpoint interface {
	Mode() Mode
	packet(enable bool, ts time.Time) Packet
}

// AttitudeSetpoint commands roll, pitch and yaw angles (degrees) plus
// normalized thrust.
type AttitudeSetpoint struct {
	Roll, Pitch, Yaw float64
	Thrust           float64
}

// Mode returns AttitudeControl.
func (AttitudeSetpoint) Mode() Mode { return AttitudeControl }

func (sp AttitudeSetpoint) packet(enable bool, ts time.Time) Packet {
	return Packet{
		Timestamp:  ts,
		Mode:       AttitudeControl,
		Enable:     enable,
		YawControl: true,
		Attitude: Attitude{
			Roll:   sp.Roll,
			Pitch:  sp.Pitch,
			Yaw:    sp.Yaw,
			Thrust: sp.Thrust,
		},
	}
}

// VelocityBodySetpoint commands a body-frame velocity vector (m/s, forward /
// right / down) plus a yaw rate (deg/s) carried in the attitude rate Z slot.
type VelocityBodySetpoint struct {
	VX, VY, VZ float64
	YawRate    float64
}

// Mode returns VelocityBody.
func (VelocityBodySetpoint) Mode() Mode { return VelocityBody }

func (sp VelocityBodySetpoint) packet(enable bool, ts time.Time) Packet {
	return Packet{
		Timestamp:    ts,
		Mode:         VelocityBody,
		Enable:       enable,
		YawControl:   true,
		Velocity:     Vector3{X: sp.VX, Y: sp.VY, Z: sp.VZ},
		AttitudeRate: Vector3{Z: sp.YawRate},
	}
}

// NewPacket flattens a setpoint variant to the fixed wire struct.
func NewPacket(sp Setpoint, enable bool, ts time.Time) Packet {
	return sp.packet(enable, ts)
}
