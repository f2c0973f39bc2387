// Package logger wraps zap to give every component of the endpoint:
//   - a global sugared logger with a console encoder on stdout,
//   - an optional rotating log file tee'd next to stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and the *KV convenience functions.
//
// The diagnostic channel of the device is this log stream: components pull
// the logger from the context they were handed and never keep their own.
package logger
