// Package integration contains end-to-end tests for the nodeprobe binary.
// The binary is built once per suite and driven as a subprocess against real
// processes and temporary node homes.
package integration
