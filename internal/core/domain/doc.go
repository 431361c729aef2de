// Package domain holds the error types of the meshkv command layer.
//
// Errors are values of *CommandError identified by a stable code; they are
// rendered to clients as RESP error frames and never close the connection.
package domain
