package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotification(matches int) Notification {
	n := Notification{
		ApplicationNumber: "APP-LX2K9A1B-7QZ3",
		FullName:          "a",
		City:              "الرياض",
		JobTitle:          "طبيب",
		Phone:             "0501234567",
		Email:             "a@b.com",
		At:                time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC),
	}
	for i := 0; i < matches; i++ {
		n.Matches = append(n.Matches, Match{Title: "طبيب عام", Facility: "غير محدد", City: "الرياض"})
	}
	return n
}

func TestWhatsAppMessage(t *testing.T) {
	msg := WhatsAppMessage(sampleNotification(7))

	assert.Contains(t, msg, "APP-LX2K9A1B-7QZ3")
	assert.Contains(t, msg, "0501234567")
	assert.Contains(t, msg, "5. طبيب عام")
	assert.NotContains(t, msg, "6. ", "only the top five matches are listed")
	// 09:30 UTC is 12:30 in Riyadh
	assert.Contains(t, msg, "2026-01-10 12:30")
}

func TestWhatsAppMessage_NoMatches(t *testing.T) {
	msg := WhatsAppMessage(sampleNotification(0))
	assert.NotContains(t, msg, "🎯")
}

func TestWhatsAppLink_RoundTrip(t *testing.T) {
	n := sampleNotification(2)
	link := WhatsAppLink("201091858809", n)

	require.True(t, strings.HasPrefix(link, "https://wa.me/201091858809?text="))
	assert.NotContains(t, link, "+", "spaces must be %20 encoded")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, WhatsAppMessage(n), u.Query().Get("text"))
}

func TestOwnerContent(t *testing.T) {
	assert.Contains(t, OwnerContent(sampleNotification(0)), "لا توجد وظائف مطابقة حالياً")

	content := OwnerContent(sampleNotification(2))
	assert.Contains(t, content, "1. طبيب عام - الرياض\n2. طبيب عام - الرياض")
	assert.Equal(t, "طلب توظيف جديد: APP-LX2K9A1B-7QZ3", OwnerTitle(sampleNotification(0)))
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "nurse.sara", NameFromEmail("nurse.sara@example.com"))
	assert.Equal(t, "plain", NameFromEmail("plain"))
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) NotifyOwner(context.Context, Notification) error {
	s.calls++
	return s.err
}

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok, bad := &stubNotifier{}, &stubNotifier{err: boom}

	err := Multi{bad, ok}.NotifyOwner(context.Background(), sampleNotification(0))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ok.calls, "a failing notifier must not stop the others")
	assert.NoError(t, Multi{ok}.NotifyOwner(context.Background(), sampleNotification(0)))
}

type fakeSender struct {
	fails int
	sent  []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fails > 0 {
		f.fails--
		return tgbotapi.Message{}, errors.New("telegram down")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegram_RetriesThenSends(t *testing.T) {
	sender := &fakeSender{fails: 1}
	tg := &Telegram{bot: sender, chatID: 99}

	require.NoError(t, tg.NotifyOwner(context.Background(), sampleNotification(1)))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(99), sender.sent[0].ChatID)
	assert.Equal(t, "HTML", sender.sent[0].ParseMode)
	assert.Contains(t, sender.sent[0].Text, "APP-LX2K9A1B-7QZ3")
}

func TestBuildRawEmail(t *testing.T) {
	raw := buildRawEmail("owner@example.com", "طلب", "body text")
	decoded, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)

	s := string(decoded)
	assert.Contains(t, s, "To: owner@example.com\r\n")
	assert.Contains(t, s, "Subject: =?UTF-8?b?")
	assert.True(t, strings.HasSuffix(s, "\r\n\r\nbody text"))
}

type fakePublisher struct {
	key string
	msg amqp.Publishing
}

func (f *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.key, f.msg = key, msg
	return nil
}

func TestQueue_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	q := &Queue{channel: pub, name: "owner_notifications"}

	require.NoError(t, q.NotifyOwner(context.Background(), sampleNotification(1)))
	assert.Equal(t, "owner_notifications", pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "APP-LX2K9A1B-7QZ3", pub.msg.MessageId)

	var got Notification
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, "طبيب", got.JobTitle)
}

type fakeAck struct {
	acked, nacked, rejected bool
	requeue                 bool
}

func (f *fakeAck) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}
func (f *fakeAck) Reject(_ uint64, requeue bool) error {
	f.rejected, f.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, ack *fakeAck, body []byte) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestWorker_Handle(t *testing.T) {
	body, err := json.Marshal(sampleNotification(1))
	require.NoError(t, err)

	t.Run("ack on success", func(t *testing.T) {
		ack := &fakeAck{}
		w := &Worker{Deliver: &stubNotifier{}}
		w.handle(context.Background(), delivery(t, ack, body))
		assert.True(t, ack.acked)
	})

	t.Run("requeue on failure", func(t *testing.T) {
		ack := &fakeAck{}
		w := &Worker{Deliver: &stubNotifier{err: errors.New("smtp down")}}
		w.handle(context.Background(), delivery(t, ack, body))
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drop after failed redelivery", func(t *testing.T) {
		ack := &fakeAck{}
		w := &Worker{Deliver: &stubNotifier{err: errors.New("chat not found")}}
		d := delivery(t, ack, body)
		d.Redelivered = true
		w.handle(context.Background(), d)
		assert.True(t, ack.rejected)
		assert.False(t, ack.nacked)
		assert.False(t, ack.requeue)
	})

	t.Run("reject malformed", func(t *testing.T) {
		ack := &fakeAck{}
		w := &Worker{Deliver: &stubNotifier{}}
		w.handle(context.Background(), delivery(t, ack, []byte("{")))
		assert.True(t, ack.rejected)
		assert.False(t, ack.requeue)
	})
}
