// Package smtp provides the interfaces and transport for outgoing mail.
package smtp

import "io"

// Client is the subset of *smtp.Client used to send a message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface establishes SMTP connections.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
