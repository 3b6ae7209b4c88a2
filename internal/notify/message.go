// Package notify formats owner-facing notifications about new job
// applications and delivers them over Telegram, Gmail, or a RabbitMQ queue.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Saudi Arabia has no DST, a fixed zone avoids depending on tzdata.
var riyadh = time.FixedZone("AST", 3*60*60)

const maxListedMatches = 5

type Match struct {
	Title    string `json:"title"`
	Facility string `json:"facility"`
	City     string `json:"city"`
}

type Notification struct {
	ApplicationNumber string    `json:"application_number"`
	FullName          string    `json:"full_name"`
	City              string    `json:"city"`
	JobTitle          string    `json:"job_title"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Matches           []Match   `json:"matches"`
	At                time.Time `json:"at"`
}

func (n Notification) topMatches() []Match {
	if len(n.Matches) > maxListedMatches {
		return n.Matches[:maxListedMatches]
	}
	return n.Matches
}

// WhatsAppMessage renders the message used for manual WhatsApp outreach.
func WhatsAppMessage(n Notification) string {
	var b strings.Builder
	b.WriteString("🏥 *طلب توظيف جديد*\n\n")
	fmt.Fprintf(&b, "📋 *رقم الطلب:* %s\n", n.ApplicationNumber)
	fmt.Fprintf(&b, "👤 *الاسم:* %s\n", n.FullName)
	fmt.Fprintf(&b, "📍 *المدينة:* %s\n", n.City)
	fmt.Fprintf(&b, "💼 *الوظيفة المطلوبة:* %s\n", n.JobTitle)
	fmt.Fprintf(&b, "📱 *الهاتف:* %s\n", n.Phone)
	fmt.Fprintf(&b, "📧 *البريد:* %s\n", n.Email)

	if matches := n.topMatches(); len(matches) > 0 {
		b.WriteString("\n🎯 *أفضل 5 وظائف مطابقة:*\n")
		for i, m := range matches {
			fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, m.Title, m.Facility, m.City)
		}
	}

	fmt.Fprintf(&b, "\n⏰ *وقت الطلب:* %s", n.At.In(riyadh).Format("2006-01-02 15:04"))
	return b.String()
}

// WhatsAppLink builds a wa.me deep link carrying the pre-filled message.
// Nothing is sent; the link is for a human to open.
func WhatsAppLink(number string, n Notification) string {
	return BaseWhatsAppLink(number) + "?text=" + encodeComponent(WhatsAppMessage(n))
}

func BaseWhatsAppLink(number string) string {
	return "https://wa.me/" + number
}

// encodeComponent percent-encodes s for the wa.me text parameter. Spaces
// become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func OwnerTitle(n Notification) string {
	return "طلب توظيف جديد: " + n.ApplicationNumber
}

func OwnerContent(n Notification) string {
	var b strings.Builder
	b.WriteString("تم استلام طلب توظيف جديد:\n")
	fmt.Fprintf(&b, "- رقم الطلب: %s\n", n.ApplicationNumber)
	fmt.Fprintf(&b, "- المدينة: %s\n", n.City)
	fmt.Fprintf(&b, "- الوظيفة: %s\n", n.JobTitle)
	fmt.Fprintf(&b, "- الهاتف: %s\n", n.Phone)
	fmt.Fprintf(&b, "- البريد: %s\n", n.Email)
	b.WriteString("\nأفضل 5 نتائج مطابقة:\n")

	matches := n.topMatches()
	if len(matches) == 0 {
		b.WriteString("لا توجد وظائف مطابقة حالياً")
		return b.String()
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("%d. %s - %s", i+1, m.Title, m.City)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// NameFromEmail stands in for a full name, which the intake form does not ask for.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
