// Package config defines the board settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the clock tick period, the feed locations and refresh
// interval, the alarm envelope, the tone outputs and the optional metrics and
// health listen addresses.
package config
