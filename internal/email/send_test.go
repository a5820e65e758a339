package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeEmailSender struct {
	mu      sync.Mutex
	sent    []Email
	to      []string
	ctxErrs []error
	err     error
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient string, msg Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	f.to = append(f.to, recipient)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected async send to finish")
	}
}

func TestSendAsync_SurvivesCanceledParent(t *testing.T) {
	sender := &fakeEmailSender{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waitDone(t, SendAsync(ctx, sender, " player@test.com ", Email{Subject: "Subject", Body: "Body"}, nil))

	if len(sender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.sent))
	}
	if sender.to[0] != "player@test.com" {
		t.Fatalf("unexpected recipient %q", sender.to[0])
	}
	if sender.ctxErrs[0] != nil {
		t.Fatalf("send context should not inherit cancellation, got %v", sender.ctxErrs[0])
	}
}

func TestSendAsync_NoOps(t *testing.T) {
	sender := &fakeEmailSender{}
	waitDone(t, SendAsync(context.Background(), nil, "a@test.com", Email{Subject: "S"}, nil))
	waitDone(t, SendAsync(context.Background(), sender, "  ", Email{Subject: "S"}, nil))
	waitDone(t, SendAsync(context.Background(), sender, "a@test.com", Email{}, nil))
	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends, got %d", len(sender.sent))
	}
}

func TestSendAsync_ErrorIsSwallowed(t *testing.T) {
	sender := &fakeEmailSender{err: errors.New("ses down")}
	waitDone(t, SendAsync(context.Background(), sender, "a@test.com", Email{Subject: "S", Body: "B"}, nil))
	if len(sender.sent) != 1 {
		t.Fatalf("expected one attempt, got %d", len(sender.sent))
	}
}

func TestBuildAvailabilityRequestEmail(t *testing.T) {
	msg := BuildAvailabilityRequestEmail(AvailabilityRequest{
		PlayerName: "Sage Main",
		Opponent:   "Night Owls",
		MatchType:  "official",
		LocalTime:  "Friday, Mar 8, 2024 at 8:00 PM",
		Timezone:   "Europe/Berlin",
		YesURL:     "https://team.example.com/match-availability/respond/y",
		MaybeURL:   "https://team.example.com/match-availability/respond/m",
		NoURL:      "https://team.example.com/match-availability/respond/n",
	})

	if msg.Kind != NoticeAvailabilityRequest {
		t.Fatalf("unexpected kind %q", msg.Kind)
	}
	if msg.Subject != "Can you play vs Night Owls?" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{
		"Hi Sage Main,",
		"Type: Official",
		"When: Friday, Mar 8, 2024 at 8:00 PM (Europe/Berlin)",
		"Map: TBD",
		"Maybe: https://team.example.com/match-availability/respond/m",
	} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestBuildApprovalEmail(t *testing.T) {
	approved := BuildApprovalEmail("", true, "https://team.example.com/login")
	if !strings.Contains(approved.Body, "Hi there,") || !strings.Contains(approved.Body, "https://team.example.com/login") {
		t.Fatalf("unexpected approval body:\n%s", approved.Body)
	}

	rejected := BuildApprovalEmail("Jett", false, "")
	if approved.Kind != NoticeRegistrationApproved || rejected.Kind != NoticeRegistrationRejected {
		t.Fatalf("unexpected kinds %q, %q", approved.Kind, rejected.Kind)
	}
	if rejected.Subject != "Your team registration was not approved" {
		t.Fatalf("unexpected rejection subject %q", rejected.Subject)
	}
}
