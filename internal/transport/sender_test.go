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

package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/induscare/mailroom/internal/models"
)

func makeConfig() *models.SMTPConfigEntity {
	return &models.SMTPConfigEntity{
		Name:      "primary",
		Host:      "smtp.example.com",
		Port:      587,
		UseTLS:    true,
		Username:  "user",
		Password:  "secret",
		FromEmail: "noreply@example.com",
		FromName:  "Mailroom",
	}
}

func TestBuildMessageAlternatives(t *testing.T) {
	msg := Message{
		ToEmail:     "jane@example.com",
		ToName:      "Jane Doe",
		Subject:     "Hello",
		HTMLContent: "<p>Hello</p>",
		TextContent: "Hello",
	}

	message := buildMessage(makeConfig(), &msg)

	assert.Equal(t, []string{`"Mailroom" <noreply@example.com>`}, message.GetHeader("From"))
	assert.Equal(t, []string{`"Jane Doe" <jane@example.com>`}, message.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, message.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := message.WriteTo(&buf)
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "text/html")

	// text/plain has to come before text/html, so that clients prefer html.
	assert.Less(t,
		bytes.Index(buf.Bytes(), []byte("text/plain")),
		bytes.Index(buf.Bytes(), []byte("text/html")))
}

func TestBuildMessageHTMLOnly(t *testing.T) {
	msg := Message{
		ToEmail:     "jane@example.com",
		Subject:     "Hello",
		HTMLContent: "<p>Hello</p>",
	}

	message := buildMessage(makeConfig(), &msg)

	var buf bytes.Buffer
	_, err := message.WriteTo(&buf)
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "text/html")
	assert.NotContains(t, body, "multipart/alternative")
}

func TestNewDialer(t *testing.T) {
	config := makeConfig()
	dialer := newDialer(config)

	assert.Equal(t, "smtp.example.com", dialer.Host)
	assert.Equal(t, 587, dialer.Port)
	assert.Equal(t, "user", dialer.Username)
	assert.Equal(t, "secret", dialer.Password)
	assert.False(t, dialer.SSL)

	require.NotNil(t, dialer.TLSConfig)
	assert.Equal(t, "smtp.example.com", dialer.TLSConfig.ServerName)
	assert.False(t, dialer.TLSConfig.InsecureSkipVerify)
}

func TestNewDialerSSL(t *testing.T) {
	config := makeConfig()
	config.Port = 465
	config.UseSSL = true
	config.AllowInsecure = true

	dialer := newDialer(config)

	assert.True(t, dialer.SSL)
	assert.True(t, dialer.TLSConfig.InsecureSkipVerify)
}
