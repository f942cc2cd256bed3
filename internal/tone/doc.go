// Package tone provides alarm.ToneOutput implementations.
//
// Logger writes each tone to the structured log, Bell rings the terminal
// bell, Speaker drives the platform beep command and Multi fans a tone out to
// several outputs. Parse builds an output from the comma separated names used
// in the configuration file.
package tone
