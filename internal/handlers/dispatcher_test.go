package handlers

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"group-verify-bot/internal/approval"
	"group-verify-bot/internal/commands"
	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/events"
	"group-verify-bot/internal/messenger/messengertest"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/moderation"
	"group-verify-bot/internal/permissions"
	"group-verify-bot/internal/registry"
	"group-verify-bot/internal/services"
	"group-verify-bot/internal/workflow"
)

const (
	adminID = int64(1)
	groupID = int64(-1001)
)

type DispatcherSuite struct {
	suite.Suite
	ctx        context.Context
	registry   *registry.Registry
	sessions   *services.SessionStore
	recorder   *messengertest.Recorder
	dispatcher *Dispatcher
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	mtr := metrics.New()

	s.ctx = context.Background()
	s.registry = registry.New(logger)
	s.sessions = services.NewSessionStore(time.Hour, logger)
	s.recorder = messengertest.New()

	verification := NewVerificationHandler(s.registry, s.sessions, s.recorder, adminID, mtr, logger)
	verification.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	guard := moderation.NewGuard(s.registry, s.recorder, moderation.Config{
		GroupID: groupID,
		AdminID: adminID,
	}, mtr, logger)
	authority := approval.NewAuthority(s.registry, s.recorder, s.sessions, services.NewQRService(logger), approval.Config{
		AdminID:           adminID,
		GroupID:           groupID,
		AnnounceApprovals: true,
	}, mtr, logger)

	s.dispatcher = NewDispatcher(permissions.NewController(adminID, s.registry, logger), verification, guard, authority, logger)
}

func (s *DispatcherSuite) dispatch(ev events.Event) {
	s.Require().NoError(s.dispatcher.Dispatch(s.ctx, ev))
}

func user(id int64) events.Sender {
	return events.Sender{ID: id, DisplayName: "Ali", Handle: "ali_r"}
}

func privateText(from int64, text string) events.TextMessage {
	return events.TextMessage{ChatID: from, Kind: events.Private, Sender: user(from), Text: text}
}

func (s *DispatcherSuite) register(id int64) {
	s.dispatch(events.CommandStart{ChatID: id, Kind: events.Private, Sender: user(id)})
	s.dispatch(privateText(id, "Ali Rezaei"))
	s.dispatch(privateText(id, "09120000000"))
	s.dispatch(events.PhotoMessage{ChatID: id, Kind: events.Private, Sender: user(id), ImageRef: "photo-largest"})
	s.dispatch(privateText(id, commands.Confirm))
}

func (s *DispatcherSuite) TestRegistrationAndApproval() {
	const u = int64(500)
	s.register(u)

	s.True(s.registry.IsPending(u))
	s.Zero(s.sessions.Count())

	photos := s.recorder.OfKind(messengertest.KindPhoto)
	s.Require().Len(photos, 1)
	s.Equal(adminID, photos[0].ChatID)
	s.Equal("photo-largest", photos[0].ImageRef)
	s.Contains(photos[0].Text, "<code>500</code>")
	s.Contains(photos[0].Text, "Ali Rezaei")
	s.Contains(photos[0].Text, "09120000000")
	s.Contains(photos[0].Text, "2024-03-01 09:30:00")
	s.Equal([]string{"✅ Approve 500", "❌ Reject 500"}, photos[0].Keyboard.Texts())

	s.recorder.Reset()
	s.dispatch(privateText(adminID, photos[0].Keyboard.Texts()[0]))

	s.True(s.registry.IsVerified(u))
	s.False(s.registry.IsPending(u))
	last, ok := s.recorder.Last(u)
	s.Require().True(ok)
	s.Contains(last.Text, "approved")
}

func (s *DispatcherSuite) TestNameRetryKeepsState() {
	const u = int64(501)
	s.dispatch(events.CommandStart{ChatID: u, Kind: events.Private, Sender: user(u)})
	s.dispatch(privateText(u, "Ali"))

	session, err := s.sessions.Get(u)
	s.Require().NoError(err)
	s.Equal(workflow.AwaitingName, session.State)

	s.dispatch(privateText(u, "Ali Rezaei"))
	session, err = s.sessions.Get(u)
	s.Require().NoError(err)
	s.Equal(workflow.AwaitingPhone, session.State)
}

func (s *DispatcherSuite) TestContactShare() {
	const u = int64(502)
	s.dispatch(events.CommandStart{ChatID: u, Kind: events.Private, Sender: user(u)})
	s.dispatch(privateText(u, "Ali Rezaei"))
	s.dispatch(events.ContactShared{ChatID: u, Kind: events.Private, Sender: user(u), Phone: "+989120000000"})

	session, err := s.sessions.Get(u)
	s.Require().NoError(err)
	s.Equal(workflow.AwaitingProof, session.State)
	s.Equal("+989120000000", session.Phone)
}

func (s *DispatcherSuite) TestRejectedUserCannotReapply() {
	const u = int64(503)
	s.register(u)
	s.dispatch(privateText(adminID, "❌ Reject 503"))
	s.True(s.registry.IsBlocked(u))

	s.recorder.Reset()
	s.register(u)

	s.True(s.registry.IsBlocked(u))
	s.False(s.registry.IsPending(u))
	s.Empty(s.recorder.OfKind(messengertest.KindPhoto))
	s.Zero(s.sessions.Count())
}

func (s *DispatcherSuite) TestGroupModeration() {
	const v = int64(600)
	for i := 1; i <= 4; i++ {
		s.dispatch(events.TextMessage{ChatID: groupID, Kind: events.Group, MessageID: i, Sender: user(v), Text: "hi"})
	}

	deletes := s.recorder.OfKind(messengertest.KindDelete)
	s.Require().Len(deletes, 1)
	s.Equal(4, deletes[0].MessageID)
	s.Len(s.recorder.To(groupID), 2)
}

func (s *DispatcherSuite) TestGroupStartCountsAsMessage() {
	const v = int64(601)
	for i := 1; i <= 4; i++ {
		s.dispatch(events.CommandStart{ChatID: groupID, Kind: events.Group, MessageID: i, Sender: user(v)})
	}
	s.Equal(4, s.registry.MessageCount(v))
	s.Len(s.recorder.OfKind(messengertest.KindDelete), 1)
	s.Zero(s.sessions.Count())
}

func (s *DispatcherSuite) TestAdminIsExempt() {
	for i := 1; i <= 10; i++ {
		s.dispatch(events.TextMessage{ChatID: groupID, Kind: events.Group, MessageID: i, Sender: user(adminID), Text: "/approve 5"})
	}
	s.Empty(s.recorder.Calls())
	s.Zero(s.registry.MessageCount(adminID))

	s.dispatch(events.CommandStart{ChatID: adminID, Kind: events.Private, Sender: user(adminID)})
	last, ok := s.recorder.Last(adminID)
	s.Require().True(ok)
	s.Contains(last.Text, "Admin commands")
	s.Contains(last.Text, "only read in this private chat")
	s.Zero(s.sessions.Count())
}

func (s *DispatcherSuite) TestAdminNotifiedByTextWhenPhotoFails() {
	s.recorder.FailOn(messengertest.KindPhoto)
	s.register(700)

	s.True(s.registry.IsPending(700))
	var notice bool
	for _, c := range s.recorder.To(adminID) {
		if c.Kind == messengertest.KindText && strings.Contains(c.Text, "New verification request") {
			notice = true
		}
	}
	s.True(notice)
}

func (s *DispatcherSuite) TestImageFileIsAcceptedAsProof() {
	const u = int64(950)
	s.dispatch(events.CommandStart{ChatID: u, Kind: events.Private, Sender: user(u)})
	s.dispatch(privateText(u, "Ali Rezaei"))
	s.dispatch(privateText(u, "09120000000"))
	s.dispatch(events.PhotoMessage{ChatID: u, Kind: events.Private, Sender: user(u), ImageRef: "scan-file", Document: true})
	s.dispatch(privateText(u, commands.Confirm))

	s.True(s.registry.IsPending(u))
	record, err := s.registry.GetPending(u)
	s.Require().NoError(err)
	s.True(record.ProofIsFile)

	s.Empty(s.recorder.OfKind(messengertest.KindPhoto))
	files := s.recorder.OfKind(messengertest.KindFile)
	s.Require().Len(files, 1)
	s.Equal(adminID, files[0].ChatID)
	s.Equal("scan-file", files[0].ImageRef)
	s.Equal([]string{"✅ Approve 950", "❌ Reject 950"}, files[0].Keyboard.Texts())
}

func (s *DispatcherSuite) TestOversizedPhoneStillReachesAdmin() {
	phone := strings.Repeat("<9", 2000)
	submit := func(id int64) {
		s.dispatch(events.CommandStart{ChatID: id, Kind: events.Private, Sender: user(id)})
		s.dispatch(privateText(id, "Ali Rezaei"))
		s.dispatch(privateText(id, phone))
		s.dispatch(events.PhotoMessage{ChatID: id, Kind: events.Private, Sender: user(id), ImageRef: "photo-largest"})
		s.dispatch(privateText(id, commands.Confirm))
	}

	submit(900)
	s.True(s.registry.IsPending(900))
	photos := s.recorder.OfKind(messengertest.KindPhoto)
	s.Require().Len(photos, 1)
	s.LessOrEqual(len(photos[0].Text), constants.MaxCaptionLength)
	s.Contains(photos[0].Text, "<code>900</code>")
	s.Contains(photos[0].Text, "&lt;9")

	for _, c := range s.recorder.To(900) {
		s.LessOrEqual(len(c.Text), constants.MaxMessageLength)
	}

	s.recorder.Reset()
	s.recorder.FailOn(messengertest.KindPhoto)
	submit(901)
	var notice string
	for _, c := range s.recorder.To(adminID) {
		if c.Kind == messengertest.KindText && strings.Contains(c.Text, "New verification request") {
			notice = c.Text
		}
	}
	s.Require().NotEmpty(notice)
	s.LessOrEqual(len(notice), constants.MaxMessageLength)
	s.Contains(notice, "<code>901</code>")

	s.recorder.Reset()
	s.dispatch(privateText(adminID, "/pending"))
	s.dispatch(privateText(adminID, "/approve 900"))
	calls := s.recorder.To(adminID)
	s.Require().NotEmpty(calls)
	for _, c := range calls {
		s.LessOrEqual(len(c.Text), constants.MaxMessageLength)
	}
	s.True(s.registry.IsVerified(900))
}

func (s *DispatcherSuite) TestClearResetsEveryone() {
	s.register(800)
	s.dispatch(privateText(adminID, "/approve 800"))
	s.register(801)
	s.dispatch(events.TextMessage{ChatID: groupID, Kind: events.Group, MessageID: 1, Sender: user(802), Text: "hi"})

	s.dispatch(privateText(adminID, "/clear"))
	s.dispatch(privateText(adminID, commands.ConfirmClear))

	for _, id := range []int64{800, 801, 802} {
		s.False(s.registry.IsVerified(id))
		s.False(s.registry.IsPending(id))
		s.Zero(s.registry.MessageCount(id))
	}
}
