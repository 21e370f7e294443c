package bot

import (
	"context"
	"io"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"quizbot/internal/config"
	"quizbot/internal/store"
)

type fakeUsers struct {
	users   map[int64]store.User
	allowed map[int64]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]store.User), allowed: make(map[int64]bool)}
}

func (f *fakeUsers) UpsertUser(_ context.Context, id int64, username, fullName string) error {
	f.users[id] = store.User{ID: id, Username: username, FullName: fullName}
	return nil
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListUsers(context.Context) ([]store.User, error) {
	var out []store.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Allow(_ context.Context, id int64, username string) error {
	f.allowed[id] = true
	return nil
}

func (f *fakeUsers) Remove(_ context.Context, id int64) (bool, error) {
	had := f.allowed[id]
	delete(f.allowed, id)
	return had, nil
}

func (f *fakeUsers) ListAllowed(context.Context) ([]store.AllowedUser, error) {
	var out []store.AllowedUser
	for id := range f.allowed {
		out = append(out, store.AllowedUser{ID: id})
	}
	return out, nil
}

func (f *fakeUsers) IsAllowed(_ context.Context, id int64) (bool, error) {
	return f.allowed[id], nil
}

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testBot(users store.UserStore, admins ...int64) *Bot {
	return &Bot{
		cfg:      config.Config{AdminIDs: admins},
		users:    users,
		sessions: newSessions(),
		log:      quietLog(),
	}
}

func command(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}

func plainMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func TestAccessAdminAlwaysGranted(t *testing.T) {
	b := testBot(newFakeUsers(), 99)
	if !b.accessGranted(context.Background(), plainMessage(99, "hello")) {
		t.Fatal("admin should pass without allow-list entry")
	}
}

func TestAccessOpenCommands(t *testing.T) {
	b := testBot(newFakeUsers(), 99)
	for _, cmd := range []string{"/start", "/help", "/myaccess"} {
		if !b.accessGranted(context.Background(), command(7, cmd)) {
			t.Errorf("%s should be open to strangers", cmd)
		}
	}
}

func TestAccessAllowListGate(t *testing.T) {
	users := newFakeUsers()
	users.allowed[7] = true
	b := testBot(users, 99)

	if !b.accessGranted(context.Background(), plainMessage(7, "hello")) {
		t.Error("allowed user should pass")
	}
	if b.accessGranted(context.Background(), plainMessage(8, "hello")) {
		t.Error("stranger should be denied")
	}
}

func TestEncodeForwardedBatch(t *testing.T) {
	polls := []tgbotapi.Poll{
		{
			Question: "Capital of France?",
			Options: []tgbotapi.PollOption{
				{Text: "Paris"}, {Text: "Lyon"},
			},
			Type:            "quiz",
			CorrectOptionID: 0,
		},
		{
			Question: "Favorite color?",
			Options: []tgbotapi.PollOption{
				{Text: "Red"}, {Text: "Blue"},
			},
			Type: "regular",
		},
	}

	want := "1. Capital of France?\n" +
		"a) Paris\n" +
		"b) Lyon\n" +
		"Answer: a) Paris\n\n" +
		"2. Favorite color?\n" +
		"a) Red\n" +
		"b) Blue\n" +
		"Answer: Not provided"

	if got := encodeBatch(polls); got != want {
		t.Errorf("encodeBatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRegularPollHidesCorrectOption(t *testing.T) {
	p := tgbotapi.Poll{Type: "regular", CorrectOptionID: 1}
	if _, ok := (pollSource{poll: &p}).CorrectOption(); ok {
		t.Error("regular poll must not expose a correct option")
	}
}

func TestForwardBatchLifecycle(t *testing.T) {
	s := newSessions()
	s.BeginCollecting(1)
	if n := s.AddForward(1, tgbotapi.Poll{Question: "q1"}); n != 1 {
		t.Fatalf("first forward: batch size %d, want 1", n)
	}
	if n := s.AddForward(1, tgbotapi.Poll{Question: "q2"}); n != 2 {
		t.Fatalf("second forward: batch size %d, want 2", n)
	}

	polls := s.TakeBatch(1)
	if len(polls) != 2 || polls[0].Question != "q1" || polls[1].Question != "q2" {
		t.Fatalf("TakeBatch returned %v", polls)
	}
	if again := s.TakeBatch(1); again != nil {
		t.Errorf("second TakeBatch should be empty, got %v", again)
	}
}

func TestFileRateLimitWindow(t *testing.T) {
	s := newSessions()
	const interval = 50 * time.Millisecond

	if ok, _ := s.AllowFile(1, interval); !ok {
		t.Fatal("first upload should pass")
	}
	ok, wait := s.AllowFile(1, interval)
	if ok {
		t.Fatal("immediate second upload should be denied")
	}
	if wait <= 0 || wait > interval {
		t.Errorf("wait = %v, want within (0, %v]", wait, interval)
	}
	// Other users have their own window.
	if ok, _ := s.AllowFile(2, interval); !ok {
		t.Error("different user should not share the window")
	}

	time.Sleep(interval + 10*time.Millisecond)
	if ok, _ := s.AllowFile(1, interval); !ok {
		t.Error("upload after the window should pass")
	}
}

func TestIsForwarded(t *testing.T) {
	if isForwarded(&tgbotapi.Message{}) {
		t.Error("plain message is not forwarded")
	}
	if !isForwarded(&tgbotapi.Message{ForwardDate: 1700000000}) {
		t.Error("ForwardDate marks a forward")
	}
	if !isForwarded(&tgbotapi.Message{ForwardFrom: &tgbotapi.User{ID: 5}}) {
		t.Error("ForwardFrom marks a forward")
	}
}
