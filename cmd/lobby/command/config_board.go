package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-lobby/internal/board"
	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"
)

type BoardProtocol int

const (
	BoardProtocolTelnet BoardProtocol = iota
	BoardProtocolSSH
)

func (p *BoardProtocol) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*p = BoardProtocolTelnet
	case "ssh":
		*p = BoardProtocolSSH
	default:
		return fmt.Errorf("unknown board protocol: %s", text)
	}
	return nil
}

type BoardConfig struct {
	Protocol    BoardProtocol `json:"protocol"`
	Port        uint16        `json:"port"`
	HostKeyPath string        `json:"host_key_path,omitempty"`
	Banner      string        `json:"banner,omitempty"`
	EventFormat string        `json:"event_format,omitempty"`
}

func (c *BoardConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	if c.EventFormat != "" {
		_, err := display.NewEventTemplate(c.EventFormat)
		if err != nil {
			el.Add(fmt.Errorf("parsing event_format: %w", err))
		}
	}

	return el.Err()
}

func (c *BoardConfig) BuildListener(m *mirror.Synchronizer) (service.Worker, error) {
	var opts []board.BoardOpt
	if c.Banner != "" {
		opts = append(opts, board.WithBanner(c.Banner))
	}
	if c.EventFormat != "" {
		tmpl, err := display.NewEventTemplate(c.EventFormat)
		if err != nil {
			return nil, fmt.Errorf("parsing event_format: %w", err)
		}
		opts = append(opts, board.WithEventTemplate(tmpl))
	}

	b, err := board.NewBoard(m, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	switch c.Protocol {
	case BoardProtocolTelnet:
		return board.NewTelnetListener(c.Port, b), nil
	case BoardProtocolSSH:
		hostKey, err := c.loadOrGenerateHostKey()
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return board.NewSshListener(c.Port, b, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown board protocol: %v", c.Protocol)
	}
}

func (c *BoardConfig) loadOrGenerateHostKey() (ssh.Signer, error) {
	if c.HostKeyPath != "" {
		keyBytes, err := os.ReadFile(c.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading host key %q: %w", c.HostKeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing host key %q: %w", c.HostKeyPath, err)
		}
		return signer, nil
	}

	slog.Warn("no host_key_path configured for ssh board, generating ephemeral key")
	_, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ephemeral key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("creating signer from ephemeral key: %w", err)
	}
	return signer, nil
}
