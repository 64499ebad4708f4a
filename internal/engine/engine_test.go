package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sovetnikUSSR/bot-smotry/internal/clock"
	"github.com/sovetnikUSSR/bot-smotry/internal/content"
	"github.com/sovetnikUSSR/bot-smotry/internal/domain"
	"github.com/sovetnikUSSR/bot-smotry/internal/store"
)

const chat int64 = 100

type sent struct {
	chatID  int64
	kind    Kind
	text    string
	image   string
	buttons []string
}

type fakeSender struct {
	got       []sent
	failPhoto bool
	onSend    func()
}

func (f *fakeSender) SendPhoto(chatID int64, image, caption string) error {
	f.got = append(f.got, sent{chatID: chatID, kind: KindPhoto, image: image, text: caption})
	if f.onSend != nil {
		f.onSend()
	}
	if f.failPhoto {
		return errors.New("photo rejected")
	}
	return nil
}

func (f *fakeSender) SendText(chatID int64, text string, kb Keyboard) error {
	f.got = append(f.got, sent{chatID: chatID, kind: KindText, text: text, buttons: kb.Buttons})
	if f.onSend != nil {
		f.onSend()
	}
	return nil
}

type fixture struct {
	eng   *Engine
	reg   *store.Registry
	clock *clock.Fixed
}

func newFixture(t *testing.T, images ...string) *fixture {
	t.Helper()
	if len(images) == 0 {
		images = []string{"img1", "img2", "img3"}
	}
	pool, err := content.NewPool([]string{"q1", "q2"}, images, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	msk, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	reg := store.NewRegistry()
	clk := &clock.Fixed{T: time.Date(2025, time.May, 5, 14, 5, 0, 0, msk)}
	return &fixture{
		eng:   New(reg, pool, clk, "@human", zap.NewNop()),
		reg:   reg,
		clock: clk,
	}
}

func (f *fixture) at(day, hour int) {
	f.clock.T = time.Date(2025, time.May, day, hour, 5, 0, 0, f.clock.T.Location())
}

func (f *fixture) enroll(t *testing.T, window string) []Directive {
	t.Helper()
	f.eng.HandleText(chat, "/start")
	return f.eng.HandleText(chat, window)
}

func TestHandleText_NoRecord(t *testing.T) {
	f := newFixture(t)
	out := f.eng.HandleText(chat, "да")
	require.Len(t, out, 1)
	assert.Equal(t, enrollFirstText, out[0].Text)
	assert.False(t, f.reg.Has(chat))
}

func TestStart_CreatesAwaitingRecord(t *testing.T) {
	f := newFixture(t)
	out := f.eng.HandleText(chat, "/start")
	require.Len(t, out, 1)
	assert.True(t, out[0].Keyboard.Remove)
	assert.Contains(t, out[0].Text, "по МСК")

	u, ok := f.reg.Get(chat)
	require.True(t, ok)
	assert.Equal(t, domain.PhaseAwaitingWindow, u.Phase)
}

func TestSubmitWindow_InvalidStaysAwaiting(t *testing.T) {
	f := newFixture(t)
	f.eng.HandleText(chat, "/start")
	for _, in := range []string{"20-9", "abc", "9-25", "24-24", "да"} {
		out := f.eng.HandleText(chat, in)
		require.Len(t, out, 1, in)
		assert.Equal(t, invalidWindow, out[0].Text)
		u, _ := f.reg.Get(chat)
		assert.Equal(t, domain.PhaseAwaitingWindow, u.Phase)
	}
}

// Enrolling inside the window dispatches immediately.
func TestScenarioA_EnrollInsideWindow(t *testing.T) {
	f := newFixture(t)
	out := f.enroll(t, "9-20")

	require.Len(t, out, 2)
	assert.Equal(t, KindText, out[0].Kind)
	assert.Contains(t, out[0].Text, "с 9:00 до 20:00")
	assert.Equal(t, KindPhoto, out[1].Kind)
	assert.Contains(t, []string{"q1", "q2"}, out[1].Text)

	u, ok := f.reg.Get(chat)
	require.True(t, ok)
	assert.Equal(t, domain.PhaseActive, u.Phase)
	assert.Equal(t, domain.Window{Start: 9, End: 20}, u.Window)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.May, Day: 5}, u.LastActionDay)
	assert.Zero(t, u.Streak)
	assert.Len(t, u.UsedImages, 1)
}

func TestSubmitWindow_OutsideWindowNoDispatch(t *testing.T) {
	f := newFixture(t)
	out := f.enroll(t, "18-22")
	require.Len(t, out, 1)
	u, _ := f.reg.Get(chat)
	assert.Empty(t, u.UsedImages)
}

// Hourly ticks through the window; the last hour carries the prompt.
func TestScenarioB_PromptOnLastHourOnly(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")

	for hour := 14; hour <= 19; hour++ {
		out := f.eng.Dispatch(chat, hour)
		if hour < 19 {
			require.Len(t, out, 1, "hour %d", hour)
			assert.Equal(t, KindPhoto, out[0].Kind)
			continue
		}
		require.Len(t, out, 2)
		assert.Equal(t, continuePrompt, out[1].Text)
		assert.Equal(t, []string{domain.LabelYes, domain.LabelNo}, out[1].Keyboard.Buttons)
	}
	assert.Nil(t, f.eng.Dispatch(chat, 20), "20:00 is outside 9-20")
	assert.Nil(t, f.eng.Dispatch(chat, 8))
}

// Three affirmative replies produce exactly one escalation offer.
func TestScenarioC_EscalationOnThirdDay(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")

	for day := 5; day <= 7; day++ {
		f.at(day, 19)
		out := f.eng.HandleText(chat, "Да")
		assert.Equal(t, continueText, out[0].Text)
		if day < 7 {
			assert.Len(t, out, 1)
			continue
		}
		require.Len(t, out, 2)
		assert.Equal(t, escalationText, out[1].Text)
		assert.Equal(t, []string{domain.LabelTalkToHuman, domain.LabelStay}, out[1].Keyboard.Buttons)
	}

	u, _ := f.reg.Get(chat)
	assert.Equal(t, 3, u.Streak)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.May, Day: 7}, u.LastActionDay)

	f.at(8, 19)
	out := f.eng.HandleText(chat, "да")
	assert.Len(t, out, 1, "no second escalation offer")
	u, _ = f.reg.Get(chat)
	assert.Equal(t, 4, u.Streak)
}

// Declining deletes the record; later ticks skip the user.
func TestScenarioD_DeclineDeletes(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")

	out := f.eng.HandleText(chat, "нет")
	require.Len(t, out, 1)
	assert.Equal(t, farewellText, out[0].Text)
	assert.False(t, f.reg.Has(chat))
	assert.Nil(t, f.eng.Dispatch(chat, 15))

	out = f.eng.HandleText(chat, "да")
	assert.Equal(t, enrollFirstText, out[0].Text)
}

// With two images, the third pick repeats and restarts the exclusion set.
func TestScenarioE_TwoImageExhaustion(t *testing.T) {
	f := newFixture(t, "P1", "P2")
	f.at(5, 3)
	f.enroll(t, "9-20")

	first := f.eng.Dispatch(chat, 10)[0].Image
	second := f.eng.Dispatch(chat, 11)[0].Image
	third := f.eng.Dispatch(chat, 12)[0].Image

	assert.NotEqual(t, first, second)
	assert.Contains(t, []string{"P1", "P2"}, third)
	u, _ := f.reg.Get(chat)
	assert.Equal(t, map[string]struct{}{third: {}}, u.UsedImages)
}

func TestTalkToHuman_DeletesAndSendsContact(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")

	out := f.eng.HandleText(chat, "поговорить с артёмом")
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Text, "@human")
	assert.False(t, f.reg.Has(chat))
}

func TestStay_ResetsStreakAndKeepsActive(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")
	for i := 0; i < 3; i++ {
		f.eng.HandleText(chat, "да")
	}

	out := f.eng.HandleText(chat, domain.LabelStay)
	require.Len(t, out, 1)
	assert.Equal(t, stayText, out[0].Text)
	u, ok := f.reg.Get(chat)
	require.True(t, ok)
	assert.Zero(t, u.Streak)
	assert.Equal(t, domain.PhaseActive, u.Phase)

	// A fresh run of three earns a fresh offer.
	var last []Directive
	for i := 0; i < 3; i++ {
		last = f.eng.HandleText(chat, "да")
	}
	assert.Len(t, last, 2)
}

func TestUnknownTextIgnored(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")
	before, _ := f.reg.Get(chat)

	assert.Nil(t, f.eng.HandleText(chat, "как дела?"))
	after, _ := f.reg.Get(chat)
	assert.Equal(t, before, after)
}

func TestRestartResetsStreak(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")
	f.eng.HandleText(chat, "да")
	f.eng.HandleText(chat, "да")

	f.enroll(t, "10-12")
	u, _ := f.reg.Get(chat)
	assert.Zero(t, u.Streak)
	assert.Equal(t, domain.Window{Start: 10, End: 12}, u.Window)
}

func TestDispatch_AwaitingUserSkipped(t *testing.T) {
	f := newFixture(t)
	f.eng.HandleText(chat, "/start")
	assert.Nil(t, f.eng.Dispatch(chat, 12))
}

func TestDispatch_UsedImagesStaySubsetOfPool(t *testing.T) {
	f := newFixture(t, "a", "b", "c")
	f.enroll(t, "0-24")
	for h := 0; h < 24; h++ {
		f.eng.Dispatch(chat, h)
		u, _ := f.reg.Get(chat)
		for img := range u.UsedImages {
			assert.Contains(t, []string{"a", "b", "c"}, img)
		}
	}
}

func TestDeliver_ContinuesAfterFailure(t *testing.T) {
	s := &fakeSender{failPhoto: true}
	ds := []Directive{photo("img", "q"), textWithButtons(continuePrompt, domain.LabelYes, domain.LabelNo)}

	err := Deliver(s, chat, ds)
	require.Error(t, err)
	assert.Len(t, s.got, 2, "prompt still sent after photo failure")
}

func TestDeliverEnrolled_StopsAfterDeletion(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "9-20")
	ds := f.eng.Dispatch(chat, 19)
	require.Len(t, ds, 2)

	// The user declines while the photo is in flight.
	s := &fakeSender{}
	s.onSend = func() { f.reg.Delete(chat) }

	require.NoError(t, f.eng.DeliverEnrolled(s, chat, ds))
	assert.Len(t, s.got, 1)
}

func TestStatusReport(t *testing.T) {
	f := newFixture(t)
	got := StatusReport(3, 1, f.clock.Now())
	assert.Equal(t, "📊 Лог бота-наблюдателя:\nВсего активных: 3\nОжидают интервал: 1\nВремя: 2025-05-05 14:05 МСК", got)
}
