package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail mails the owner summary from the authorized account to OwnerEmail.
type Gmail struct {
	service    *gmail.Service
	ownerEmail string
}

func NewGmail(ctx context.Context, client *http.Client, ownerEmail string) (*Gmail, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Gmail{service: svc, ownerEmail: ownerEmail}, nil
}

func (g *Gmail) NotifyOwner(ctx context.Context, n Notification) error {
	raw := buildRawEmail(g.ownerEmail, OwnerTitle(n), OwnerContent(n))
	msg := &gmail.Message{Raw: raw}

	return retry(ctx, 3, time.Second, func() error {
		_, err := g.service.Users.Messages.Send("me", msg).Context(ctx).Do()
		return err
	})
}

// buildRawEmail returns an RFC 2822 message, base64url-encoded as the Gmail
// API expects. The subject is RFC 2047 encoded since it is Arabic.
func buildRawEmail(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
