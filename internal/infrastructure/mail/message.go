package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
)

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	from        string
	fromName    string
	to          string
	subject     string
	body        string
	attachments []Attachment
}

func NewMessage() *Message {
	return &Message{}
}

func (m *Message) From(address, name string) *Message {
	m.from = address
	m.fromName = name
	return m
}

func (m *Message) To(address string) *Message {
	m.to = address
	return m
}

func (m *Message) Subject(subject string) *Message {
	m.subject = subject
	return m
}

func (m *Message) Body(body string) *Message {
	m.body = body
	return m
}

func (m *Message) Attach(filename string, content []byte) *Message {
	m.attachments = append(m.attachments, Attachment{Filename: filename, Content: content})
	return m
}

func (m *Message) Recipient() string {
	return m.to
}

func (m *Message) Validate() error {
	if m.to == "" {
		return fmt.Errorf("message has no recipient")
	}
	if m.subject == "" {
		return fmt.Errorf("message has no subject")
	}
	return nil
}

const boundary = "tourpay-mixed-boundary"

// Bytes renders the message as a MIME multipart payload suitable for SMTP.
func (m *Message) Bytes() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&buf, "To: %s\r\n", m.to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(m.body)
	buf.WriteString("\r\n")

	for _, a := range m.attachments {
		contentType := mime.TypeByExtension(filepath.Ext(a.Filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", a.Filename)

		encoded := base64.StdEncoding.EncodeToString(a.Content)
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
