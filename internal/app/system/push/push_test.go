package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
)

type fakeClient struct {
	got  *messaging.MulticastMessage
	resp *messaging.BatchResponse
	err  error
}

func (f *fakeClient) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.got = m
	return f.resp, f.err
}

func TestBuildMulticast(t *testing.T) {
	m := BuildMulticast(Message{
		NotificationID: "n1",
		Title:          "Exam week",
		Body:           "Join a room",
		Priority:       PriorityHigh,
		DeepLink:       "room",
		DeepLinkData:   "r1",
	}, []string{"t1", "t2"})

	if len(m.Tokens) != 2 {
		t.Errorf("tokens: got %d, want 2", len(m.Tokens))
	}
	if m.Notification.Title != "Exam week" || m.Notification.Body != "Join a room" {
		t.Errorf("notification = %+v", m.Notification)
	}
	if m.Data["deepLink"] != "room" || m.Data["deepLinkData"] != "r1" || m.Data["notificationId"] != "n1" {
		t.Errorf("data = %v", m.Data)
	}
	if m.Data["type"] != "admin_notification" {
		t.Errorf("type: got %q", m.Data["type"])
	}
	if m.Android.Priority != PriorityHigh || m.Android.Notification.ClickAction == "" {
		t.Errorf("android = %+v", m.Android)
	}
	aps := m.APNS.Payload.Aps
	if aps.Sound != "default" || aps.Badge == nil || *aps.Badge != 1 || aps.Category != "room" {
		t.Errorf("aps = %+v", aps)
	}
}

func TestBuildMulticast_NormalWithoutDeepLink(t *testing.T) {
	m := BuildMulticast(Message{Title: "t", Body: "b", Priority: "low"}, []string{"t1"})
	if m.Android.Priority != PriorityNormal {
		t.Errorf("android priority: got %q, want normal", m.Android.Priority)
	}
	if m.Android.Notification.ClickAction != "" {
		t.Errorf("click action set without deep link")
	}
	if _, ok := m.Data["deepLink"]; ok {
		t.Errorf("unexpected deepLink in data")
	}
}

func TestFCM_SendMulticast(t *testing.T) {
	client := &fakeClient{resp: &messaging.BatchResponse{
		SuccessCount: 1,
		FailureCount: 1,
		Responses: []*messaging.SendResponse{
			{Success: true, MessageID: "m1"},
			{Success: false, Error: errors.New("boom")},
		},
	}}
	res, err := NewFCM(client).SendMulticast(context.Background(), Message{Title: "t"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("SendMulticast: %v", err)
	}
	if len(res) != 2 || !res[0].Success || res[0].MessageID != "m1" || res[0].Token != "a" {
		t.Errorf("result[0] = %+v", res[0])
	}
	if res[1].Success || res[1].Err == nil || res[1].InvalidToken {
		t.Errorf("result[1] = %+v", res[1])
	}
}

func TestFCM_SendMulticastErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("unavailable")}
	f := NewFCM(client)
	if _, err := f.SendMulticast(context.Background(), Message{}, []string{"a"}); err == nil {
		t.Error("expected transport error")
	}
	if _, err := f.SendMulticast(context.Background(), Message{}, make([]string, MaxBatch+1)); !errors.Is(err, ErrTooManyTokens) {
		t.Errorf("oversized batch: got %v", err)
	}
	res, err := f.SendMulticast(context.Background(), Message{}, nil)
	if err != nil || res != nil {
		t.Errorf("empty batch: got %v, %v", res, err)
	}
}

func TestIsInvalidToken_PlainError(t *testing.T) {
	if IsInvalidToken(nil) {
		t.Error("nil error reported invalid")
	}
	if IsInvalidToken(errors.New("timeout")) {
		t.Error("plain error reported invalid")
	}
}

func TestDisabled(t *testing.T) {
	res, err := Disabled{}.SendMulticast(context.Background(), Message{Title: "t"}, []string{"a"})
	if !errors.Is(err, ErrDisabled) || res != nil {
		t.Errorf("got %v, %v", res, err)
	}
}
