// Package logger wraps zap to offer:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and output selection,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Components take a context and extract the logger from it, so every log
// line carries the names and key-value pairs attached further up the stack.
package logger
