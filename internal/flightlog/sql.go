package flightlog

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      started_at,
                      role,
                      profile,
                      remote_addr,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    started_at,
    role,
    profile,
    remote_addr,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    started_at,
    role,
    profile,
    remote_addr,
    config
FROM sessions
ORDER BY started_at`

	insertCommandSQL = `
INSERT INTO commands (session_id,
                      timestamp,
                      mode,
                      enable,
                      yaw_control,
                      pos_x, pos_y, pos_z,
                      vel_x, vel_y, vel_z,
                      acc_x, acc_y, acc_z,
                      att_roll, att_pitch, att_yaw, att_thrust,
                      rate_x, rate_y, rate_z)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectCommandsSQL = `
SELECT
    id,
    session_id,
    timestamp,
    mode,
    enable,
    yaw_control,
    pos_x, pos_y, pos_z,
    vel_x, vel_y, vel_z,
    acc_x, acc_y, acc_z,
    att_roll, att_pitch, att_yaw, att_thrust,
    rate_x, rate_y, rate_z
FROM commands
WHERE
    session_id = ?`
)

//go:embed schema.sql
var schemaSQL string
