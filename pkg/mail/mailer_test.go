package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type dialerStub struct {
	sent []*gomail.Message
	err  error
}

func (d *dialerStub) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPMailerSend(t *testing.T) {
	stub := &dialerStub{}
	mailer := &SMTPMailer{from: "noreply@skillnaav.com", dialer: stub}

	err := mailer.Send(context.Background(), Message{To: "asha@example.com", Subject: "Offer", HTMLBody: "<p>hi</p>"})
	require.NoError(t, err)
	require.Len(t, stub.sent, 1)
	assert.Equal(t, []string{"asha@example.com"}, stub.sent[0].GetHeader("To"))

	var buf bytes.Buffer
	_, err = stub.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "text/html"))
}

func TestSMTPMailerSendErrors(t *testing.T) {
	stub := &dialerStub{err: errors.New("connection refused")}
	mailer := &SMTPMailer{from: "noreply@skillnaav.com", dialer: stub}

	require.Error(t, mailer.Send(context.Background(), Message{Subject: "no recipient"}))

	err := mailer.Send(context.Background(), Message{To: "a@b.c", TextBody: "x"})
	require.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, mailer.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}
