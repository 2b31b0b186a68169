// Package config declares the command line interface. Every flag can also be
// set through a configuration file or a MOTIONEMU_ environment variable.
package config

import "github.com/Alia5/motionemu/internal/cmd"

// Log configures diagnostic output.
type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"MOTIONEMU_LOG_LEVEL"`
	Format  string `help:"Log record format" enum:"text,json" default:"text" env:"MOTIONEMU_LOG_FORMAT"`
	File    string `help:"Write logs to this file; the console then only shows warnings and errors" env:"MOTIONEMU_LOG_FILE"`
	RawFile string `help:"Hex dump every emitted report to this file" env:"MOTIONEMU_LOG_RAW_FILE"`
}

// CLI is the root command.
type CLI struct {
	Config string `help:"Path to a configuration file (json, yaml or toml)" env:"MOTIONEMU_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Simulate cmd.Simulate       `cmd:"" help:"Replay an input trace through the motion emulator"`
	Play     cmd.Play           `cmd:"" help:"Drive the emulator interactively from the keyboard"`
	IMU      cmd.IMU            `cmd:"" name:"imu" help:"Feed a real accelerometer and gyroscope into the emulator"`
	Profile  cmd.ProfileCommand `cmd:"" help:"Manage controller profiles"`
	ConfigC  cmd.ConfigCommand  `cmd:"" name:"config" help:"Manage configuration files"`
}
