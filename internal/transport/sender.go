// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package transport delivers rendered messages over smtp.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/induscare/mailroom/internal/models"
)

// Message is a fully rendered mail ready for delivery. TextContent may be
// empty, in which case the message is sent as html only.
type Message struct {
	ToEmail     string
	ToName      string
	Subject     string
	HTMLContent string
	TextContent string
}

// Sender delivers messages using a transport profile.
type Sender interface {
	// Send delivers a message via the smtp server described by config. The
	// context cancels the attempt, but a connection already handed to the
	// smtp server cannot be recalled.
	Send(ctx context.Context, config *models.SMTPConfigEntity, msg *Message) error
}

// gomailSender is a Sender on top of gomail. A fresh connection is dialed
// per message, which keeps delivery free of shared state at the cost of a
// handshake per send.
type gomailSender struct{}

// NewSender creates a new smtp Sender.
func NewSender() Sender {
	return gomailSender{}
}

func (s gomailSender) Send(
	ctx context.Context,
	config *models.SMTPConfigEntity,
	msg *Message,
) error {
	var (
		message = buildMessage(config, msg)
		dialer  = newDialer(config)
	)

	done := make(chan error, 1)

	go func() {
		done <- dialer.DialAndSend(message)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("transport: send to %q aborted: %w", msg.ToEmail, ctx.Err())

	case err := <-done:
		if err != nil {
			return fmt.Errorf("transport: send to %q via %q: %w", msg.ToEmail, config.Host, err)
		}

		return nil
	}
}

func buildMessage(config *models.SMTPConfigEntity, msg *Message) *gomail.Message {
	message := gomail.NewMessage()

	message.SetHeader("From", message.FormatAddress(config.FromEmail, config.FromName))
	message.SetHeader("To", message.FormatAddress(msg.ToEmail, msg.ToName))
	message.SetHeader("Subject", msg.Subject)

	// A plaintext part, when present, goes first so that the html part is
	// the preferred alternative.
	if msg.TextContent != "" {
		message.SetBody("text/plain", msg.TextContent)
		message.AddAlternative("text/html", msg.HTMLContent)
	} else {
		message.SetBody("text/html", msg.HTMLContent)
	}

	return message
}

func newDialer(config *models.SMTPConfigEntity) *gomail.Dialer {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	// With SSL the connection is encrypted from the first byte. Otherwise
	// gomail upgrades via starttls whenever the server offers it.
	dialer.SSL = config.UseSSL
	dialer.TLSConfig = &tls.Config{
		ServerName:         config.Host,
		InsecureSkipVerify: config.AllowInsecure,
	}

	return dialer
}
