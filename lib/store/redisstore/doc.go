// Package redisstore implements the production store backend on top of
// Redis. Every client handle wraps its own driver client (and thereby its
// own connection pool), so actors configured with different URLs never share
// connections. Connection parameters are validated when the handle is
// created; command failures surface as typed store errors with the driver
// error preserved as the cause.
package redisstore
