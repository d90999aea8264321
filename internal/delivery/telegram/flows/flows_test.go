package flows

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"shiftbook/internal/app/service"
	"shiftbook/internal/delivery/telegram/keyboards"
	"shiftbook/internal/domain"
	"shiftbook/internal/repository/sqlite"
	"shiftbook/internal/session"
	"shiftbook/pkg/logger"
	"shiftbook/pkg/workerpool"
)

type fakeContext struct {
	telebot.Context

	chat     *telebot.Chat
	msg      *telebot.Message
	callback *telebot.Callback
	store    map[string]interface{}

	sent   []string
	edited []string
	markup *telebot.ReplyMarkup
}

func command(chatID int64, text string) *fakeContext {
	return &fakeContext{
		chat:  &telebot.Chat{ID: chatID},
		msg:   &telebot.Message{Payload: text},
		store: map[string]interface{}{},
	}
}

func callback(chatID int64) *fakeContext {
	return &fakeContext{
		chat:     &telebot.Chat{ID: chatID},
		callback: &telebot.Callback{},
		store:    map[string]interface{}{},
	}
}

func (f *fakeContext) Chat() *telebot.Chat         { return f.chat }
func (f *fakeContext) Message() *telebot.Message   { return f.msg }
func (f *fakeContext) Callback() *telebot.Callback { return f.callback }
func (f *fakeContext) Get(key string) interface{}  { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, what.(string))
	f.keepMarkup(opts)
	return nil
}

func (f *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	f.edited = append(f.edited, what.(string))
	f.keepMarkup(opts)
	return nil
}

func (f *fakeContext) keepMarkup(opts []interface{}) {
	for _, o := range opts {
		if m, ok := o.(*telebot.ReplyMarkup); ok {
			f.markup = m
		}
	}
}

func (f *fakeContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeContext) lastEdited() string {
	if len(f.edited) == 0 {
		return ""
	}
	return f.edited[len(f.edited)-1]
}

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newDeps(t *testing.T) *Deps {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	pool := workerpool.NewWorkerPool(1, 8)
	t.Cleanup(pool.Close)

	shifts := service.NewShiftService(sqlite.NewSqliteShiftRepo(db, time.UTC), nil, nil)
	users := sqlite.NewSqliteUserRepo(db)
	return &Deps{
		Users:             service.NewUserService(users, nil),
		Places:            service.NewPlaceService(sqlite.NewSqlitePlaceRepo(db)),
		Shifts:            shifts,
		Summary:           service.NewSummaryService(users, shifts, 1030000),
		Async:             service.NewAsyncService(pool),
		Sessions:          session.NewStore(),
		Log:               logger.Nop(),
		Loc:               time.UTC,
		Now:               func() time.Time { return testNow },
		DefaultClosingDay: 31,
		DefaultGoal:       80000,
	}
}

// loggedIn регистрирует пользователя, входит в чат и добавляет место Cafe.
func loggedIn(t *testing.T, d *Deps, chatID int64) int64 {
	t.Helper()
	require.NoError(t, d.handleSignUp(command(chatID, "alice pw 25 10000")))
	require.NoError(t, d.handleLogin(command(chatID, "alice pw")))
	userID, ok := d.Sessions.UserID(chatID)
	require.True(t, ok)
	require.NoError(t, d.authed(d.handleAddPlace)(command(chatID, "Cafe")))
	return userID
}

func TestSignUpAndLogin(t *testing.T) {
	d := newDeps(t)

	c := command(1, "alice pw")
	require.NoError(t, d.handleSignUp(c))
	assert.Contains(t, c.lastSent(), "Аккаунт создан")

	c = command(1, "alice other")
	require.NoError(t, d.handleSignUp(c))
	assert.Contains(t, c.lastSent(), "Имя уже занято")

	c = command(1, "alice wrong")
	require.NoError(t, d.handleLogin(c))
	assert.Contains(t, c.lastSent(), "Неверное имя или пароль")
	_, ok := d.Sessions.UserID(1)
	assert.False(t, ok)

	c = command(1, "alice pw")
	require.NoError(t, d.handleLogin(c))
	_, ok = d.Sessions.UserID(1)
	assert.True(t, ok)

	u, ok, err := d.Users.GetUser(context.Background(), mustUserID(t, d, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 31, u.ClosingDay, "defaults applied")
	assert.Equal(t, int64(80000), u.GoalAmount)

	require.NoError(t, d.handleLogout(command(1, "")))
	_, ok = d.Sessions.UserID(1)
	assert.False(t, ok)
}

func mustUserID(t *testing.T, d *Deps, chatID int64) int64 {
	t.Helper()
	id, ok := d.Sessions.UserID(chatID)
	require.True(t, ok)
	return id
}

func TestCommandsRequireLogin(t *testing.T) {
	d := newDeps(t)

	for name, h := range map[string]telebot.HandlerFunc{
		"home":     d.authed(d.handleHome),
		"addshift": d.authed(d.handleAddShift),
		"shifts":   d.authed(d.handleShifts),
		"places":   d.authed(d.handlePlaces),
	} {
		c := command(5, "")
		require.NoError(t, h(c), name)
		assert.Equal(t, loginHint, c.lastSent(), name)
	}
}

func TestAddShift_AddsAndReportsAmount(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	c := command(1, "Cafe; Morning; 2024-03-01 09:00; 2024-03-01 17:00; 00:30; 1000")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "Смена добавлена")
	assert.Contains(t, c.lastSent(), "¥7,500")

	shifts, err := d.Shifts.GetShifts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, int64(7500), shifts[0].Amount)
}

func TestAddShift_OverlapAsksToOverwrite(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	require.NoError(t, d.authed(d.handleAddShift)(command(1, "Cafe; Morning; 2024-03-01 09:00; 2024-03-01 17:00; 00:30; 1000")))

	c := command(1, "Cafe; Evening; 2024-03-01 16:00; 2024-03-01 20:00; 00:00; 1200")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "Перезаписать?")
	require.NotNil(t, c.markup)
	assert.Equal(t, overwriteKey, c.markup.InlineKeyboard[0][0].Unique)

	shifts, err := d.Shifts.GetShifts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "Morning", shifts[0].Title)

	cb := callback(1)
	require.NoError(t, d.handleOverwrite(cb, userID, ""))
	assert.Contains(t, cb.lastEdited(), "Смена добавлена")

	shifts, err = d.Shifts.GetShifts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "Evening", shifts[0].Title)

	cb = callback(1)
	require.NoError(t, d.handleOverwrite(cb, userID, ""))
	assert.Equal(t, "Нечего перезаписывать.", cb.lastEdited())
}

func TestAddShift_RejectsUnknownPlaceAndBadInput(t *testing.T) {
	d := newDeps(t)
	loggedIn(t, d, 1)

	c := command(1, "Bar; Night; 2024-03-01 20:00; 2024-03-02 04:00; 00:00; 1000")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "/addplace Bar")

	c = command(1, "Cafe; Night; 2024-03-01 20:00; 2024-03-01 19:00; 00:00; 1000")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "конец должен быть позже начала")

	c = command(1, "Cafe; Night")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "Не получилось")

	c = command(1, "")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "Формат")
}

func TestAddShift_WeeklyRepeat(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	c := command(1, "Cafe; Morning; 2024-03-04 09:00; 2024-03-04 17:00; 00:30; 1000; 2024-03-25")
	require.NoError(t, d.authed(d.handleAddShift)(c))
	assert.Contains(t, c.lastSent(), "Добавлено смен: 4")

	shifts, err := d.Shifts.GetShifts(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, shifts, 4)
}

func TestShiftsCalendarAndDelete(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)
	require.NoError(t, d.authed(d.handleAddShift)(command(1, "Cafe; Morning; 2024-03-05 09:00; 2024-03-05 17:00; 00:30; 1000")))

	c := command(1, "")
	require.NoError(t, d.authed(d.handleShifts)(c))
	assert.Contains(t, c.lastSent(), "Март 2024")
	require.NotNil(t, c.markup)
	assert.Equal(t, "5•", c.markup.InlineKeyboard[0][4].Text)

	cb := callback(1)
	require.NoError(t, d.handleDay(cb, userID, "5-3-2024"))
	assert.Contains(t, cb.lastEdited(), "Cafe · Morning")
	assert.Contains(t, cb.lastEdited(), "¥7,500")
	require.NotNil(t, cb.markup)
	del := cb.markup.InlineKeyboard[0][0]
	assert.Equal(t, keyboards.DeleteShiftKey, del.Unique)

	cb = callback(1)
	require.NoError(t, d.handleDeleteShift(cb, userID, del.Data))
	assert.Contains(t, cb.lastEdited(), "Смена удалена")
	assert.Contains(t, cb.lastEdited(), "Смен на 05.03.2024 нет")

	c = command(1, "")
	require.NoError(t, d.authed(d.handleShifts)(c))
	assert.Equal(t, "5", c.markup.InlineKeyboard[0][4].Text, "cache refreshed after delete")
}

func TestShiftsCalendar_RefreshedInOtherChatOfSameUser(t *testing.T) {
	d := newDeps(t)
	loggedIn(t, d, 1)
	require.NoError(t, d.handleLogin(command(2, "alice pw")))

	c := command(2, "")
	require.NoError(t, d.authed(d.handleShifts)(c))
	assert.Equal(t, "5", c.markup.InlineKeyboard[0][4].Text)

	require.NoError(t, d.authed(d.handleAddShift)(command(1, "Cafe; Morning; 2024-03-05 09:00; 2024-03-05 17:00; 00:30; 1000")))

	c = command(2, "")
	require.NoError(t, d.authed(d.handleShifts)(c))
	assert.Equal(t, "5•", c.markup.InlineKeyboard[0][4].Text)
}

func TestMonthNavigation(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	cb := callback(1)
	require.NoError(t, d.handleMonth(cb, userID, "0-2024"))
	assert.Contains(t, cb.lastEdited(), "Декабрь 2023")

	cb = callback(1)
	require.NoError(t, d.showMonthPicker(cb, "2024", 1))
	assert.Contains(t, cb.lastEdited(), "2025")

	cb = callback(1)
	require.NoError(t, d.handlePickMonth(cb, userID, "2024-07"))
	assert.Contains(t, cb.lastEdited(), "Июль 2024")
}

func TestPlacesFlow(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	c := command(1, "Cafe")
	require.NoError(t, d.authed(d.handleAddPlace)(c))
	assert.Contains(t, c.lastSent(), "уже есть")

	require.NoError(t, d.authed(d.handleAddPlace)(command(1, "Warehouse")))

	c = command(1, "")
	require.NoError(t, d.authed(d.handlePlaces)(c))
	assert.Contains(t, c.lastSent(), "• Cafe\n• Warehouse")

	cb := callback(1)
	require.NoError(t, d.handleDeletePlace(cb, userID, "0"))
	assert.Equal(t, "Места работы:\n• Warehouse", cb.lastEdited())

	names, err := d.Places.GetPlaces(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Warehouse"}, names)
}

func TestSettingsAndWithdraw(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	c := command(1, "")
	require.NoError(t, d.authed(d.handleSettings)(c))
	assert.Contains(t, c.lastSent(), "День закрытия периода: 25")

	c = command(1, "alice pw2 10 50000")
	require.NoError(t, d.authed(d.handleSettings)(c))
	assert.Equal(t, "Настройки сохранены.", c.lastSent())

	u, _, err := d.Users.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 10, u.ClosingDay)
	assert.Equal(t, "pw2", u.Password)

	cb := callback(1)
	require.NoError(t, d.handleWithdrawConfirm(cb, userID, ""))
	assert.Equal(t, "Аккаунт удалён.", cb.lastEdited())
	_, ok := d.Sessions.UserID(1)
	assert.False(t, ok)

	c = command(1, "alice pw2")
	require.NoError(t, d.handleLogin(c))
	assert.Contains(t, c.lastSent(), "Неверное имя или пароль")
}

func TestHome(t *testing.T) {
	d := newDeps(t)
	loggedIn(t, d, 1)
	require.NoError(t, d.authed(d.handleAddShift)(command(1, "Cafe; Morning; 2024-03-05 09:00; 2024-03-05 17:00; 00:30; 1000")))

	c := command(1, "")
	require.NoError(t, d.authed(d.handleHome)(c))
	text := c.lastSent()
	assert.Contains(t, text, "Период: 26.02.2024 – 25.03.2024")
	assert.Contains(t, text, "Заработано: ¥7,500 из ¥10,000 (75.0%)")
	assert.Contains(t, text, "Следующих смен нет")
}

func TestFormatSummary_NextShift(t *testing.T) {
	text := FormatSummary(domain.Summary{
		PeriodStart:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
		AnnualLimit:  1030000,
		Remaining:    1030000,
		NextShift:    time.Date(2024, time.February, 20, 9, 0, 0, 0, time.UTC),
		HasNextShift: true,
	})
	assert.True(t, strings.HasSuffix(text, "Следующая смена: 20.02.2024 09:00"))
	assert.Contains(t, text, "лимит ¥1,030,000")
}

func TestDeleteShift_IgnoresBadPayload(t *testing.T) {
	d := newDeps(t)
	userID := loggedIn(t, d, 1)

	cb := callback(1)
	require.NoError(t, d.handleDeleteShift(cb, userID, "abc"))
	assert.Empty(t, cb.edited)

	require.NoError(t, d.handleDeleteShift(cb, userID, strconv.Itoa(999)))
	assert.Contains(t, cb.lastEdited(), "Смена удалена")
}
