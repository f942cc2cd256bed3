// Package health exposes the standard gRPC health service for the board.
//
// Supervisors and kiosks probe it to learn whether the display loop is
// running: the status is SERVING while the board is up and NOT_SERVING once
// shutdown starts.
package health
