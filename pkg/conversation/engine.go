package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"unlockbot/models"
	"unlockbot/pkg/settings"
	"unlockbot/pkg/storage"
	"unlockbot/pkg/unlockpage"
)

// maxIDAttempts ограничивает повторы при коллизии идентификатора поста.
const maxIDAttempts = 5

// Store — часть хранилища, с которой работает движок.
type Store interface {
	storage.Counter
	CreatePost(ctx context.Context, p models.Post) error
	GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	AppendChannel(ctx context.Context, userID int64, ch models.ChannelLink) error
	ClearChannels(ctx context.Context, userID int64) error
	SetUserZone(ctx context.Context, userID int64, zoneID string) error
}

// Membership проверяет и меняет премиум-подписки.
type Membership interface {
	IsOwner(userID int64) bool
	IsPremium(ctx context.Context, userID int64) (bool, error)
	Grant(ctx context.Context, userID int64, days int, plan string) (*models.PremiumMembership, error)
	Revoke(ctx context.Context, userID int64) (bool, error)
}

// Options — зависимости движка. Render, NewID и Now заполняются по умолчанию, если не заданы.
type Options struct {
	Store       Store
	Membership  Membership
	Settings    *settings.Settings
	Sessions    Sessions
	BaseURL     string
	OwnerHandle string

	Render func(post models.Post, zoneID string, requiredClicks int) (string, error)
	NewID  func() (string, error)
	Now    func() time.Time
}

// Engine переводит входящие события пользователя в ответы и изменения хранилища.
type Engine struct {
	opts  Options
	locks *userLocks
}

func New(opts Options) *Engine {
	if opts.Render == nil {
		opts.Render = unlockpage.Render
	}
	if opts.NewID == nil {
		opts.NewID = storage.NewPostID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sessions == nil {
		opts.Sessions = NewMemorySessions()
	}
	return &Engine{opts: opts, locks: newUserLocks()}
}

// Handle обрабатывает одно событие целиком, включая запись в хранилище.
// События одного пользователя обрабатываются последовательно в порядке вызова.
func (e *Engine) Handle(ctx context.Context, ev Event) []Reply {
	unlock := e.locks.Lock(ev.UserID)
	defer unlock()

	switch ev.Kind {
	case KindCommand:
		return e.handleCommand(ctx, ev)
	case KindButton:
		return e.handleButton(ctx, ev)
	case KindText:
		return e.handleText(ctx, ev)
	default:
		return nil
	}
}

// PostURL возвращает публичный адрес страницы поста.
func (e *Engine) PostURL(id string) string {
	return strings.TrimSuffix(e.opts.BaseURL, "/") + "/post/" + id
}

func (e *Engine) handleCommand(ctx context.Context, ev Event) []Reply {
	switch ev.Command {
	case CommandStart, CommandSettings:
		return e.menu(ev.UserID)
	case CommandCancel:
		return e.cancel(ctx, ev)
	case CommandPost:
		if denied := e.requirePremium(ctx, ev); denied != nil {
			return denied
		}
		return e.begin(ctx, ev, AwaitingTitle{}, prompt(textAskTitle))
	case CommandStats:
		if denied := e.requireOwner(ev); denied != nil {
			return denied
		}
		return e.stats(ctx, ev)
	case CommandSetZone, CommandSetClicks, CommandSetOffer, CommandAddPremium, CommandDeletePremium:
		if denied := e.requireOwner(ev); denied != nil {
			return denied
		}
		field := commandFields[ev.Command]
		arg := strings.TrimSpace(ev.Arg)
		if arg == "" {
			return e.begin(ctx, ev, AwaitingAdminValue{Field: field}, prompt(adminPrompts[field]))
		}
		return e.applyAdmin(ctx, ev, field, arg)
	default:
		return nil
	}
}

func (e *Engine) handleButton(ctx context.Context, ev Event) []Reply {
	switch ev.Action {
	case ActionMenu:
		return e.menu(ev.UserID)
	case ActionViewPremium:
		return e.viewPremium(ctx, ev)
	case ActionCancel:
		return e.cancel(ctx, ev)
	case ActionStartPost, ActionChannelsMenu, ActionAddChannel, ActionClearChannels,
		ActionSetUserZone, ActionSkipQuality, ActionConfirmPost:
		if denied := e.requirePremium(ctx, ev); denied != nil {
			return denied
		}
		return e.premiumAction(ctx, ev)
	case ActionSetAdminZone, ActionSetAdminClicks, ActionSetOffer, ActionAddMember, ActionRemoveMember:
		if denied := e.requireOwner(ev); denied != nil {
			return denied
		}
		field := actionFields[ev.Action]
		return e.begin(ctx, ev, AwaitingAdminValue{Field: field}, prompt(adminPrompts[field]))
	default:
		log.Printf("[ENGINE] неизвестное действие %q от %d", ev.Action, ev.UserID)
		return nil
	}
}

func (e *Engine) premiumAction(ctx context.Context, ev Event) []Reply {
	switch ev.Action {
	case ActionStartPost:
		return e.begin(ctx, ev, AwaitingTitle{}, prompt(textAskTitle))
	case ActionChannelsMenu:
		return e.channelsMenu(ctx, ev)
	case ActionAddChannel:
		return e.begin(ctx, ev, AwaitingChannelName{}, prompt(textAskChannelName))
	case ActionClearChannels:
		if err := e.opts.Store.ClearChannels(ctx, ev.UserID); err != nil {
			return e.fail("очистка каналов", ev.UserID, err)
		}
		return []Reply{{Text: textChannelsClear}}
	case ActionSetUserZone:
		return e.begin(ctx, ev, AwaitingUserZone{}, prompt(textAskUserZone))
	case ActionSkipQuality:
		return e.skipQualities(ctx, ev)
	case ActionConfirmPost:
		return e.confirm(ctx, ev)
	}
	return nil
}

func (e *Engine) handleText(ctx context.Context, ev Event) []Reply {
	text := strings.TrimSpace(ev.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}
	st, err := e.opts.Sessions.Load(ctx, ev.UserID)
	if err != nil {
		return e.fail("чтение шага", ev.UserID, err)
	}
	if st == nil {
		return nil
	}

	switch s := st.(type) {
	case AwaitingTitle:
		return e.advance(ctx, ev, AwaitingImage{Draft: PostDraft{Title: text}}, prompt(textAskImage))
	case AwaitingImage:
		s.Draft.Image = text
		return e.advance(ctx, ev, AwaitingLanguage{Draft: s.Draft}, prompt(textAskLanguage))
	case AwaitingLanguage:
		s.Draft.Language = text
		return e.advance(ctx, ev, AwaitingQualityName{Draft: s.Draft}, prompt(textAskQuality))
	case AwaitingQualityName:
		if doneKeywords[strings.ToLower(text)] {
			return e.toConfirmation(ctx, ev, s.Draft)
		}
		return e.advance(ctx, ev, AwaitingQualityLink{Draft: s.Draft, Quality: text}, prompt(textAskQualityLink))
	case AwaitingQualityLink:
		d := s.Draft
		d.Links = append(slices.Clone(d.Links), models.QualityLink{Quality: s.Quality, Link: text})
		return e.advance(ctx, ev, AwaitingQualityName{Draft: d},
			prompt(textMoreQualities, []Button{{Text: btnSkipQuality, Action: ActionSkipQuality}}))
	case AwaitingConfirmation:
		return []Reply{prompt(textConfirm, []Button{{Text: btnConfirm, Action: ActionConfirmPost}})}
	case AwaitingChannelName:
		return e.advance(ctx, ev, AwaitingChannelLink{Name: text}, prompt(textAskChannelLink))
	case AwaitingChannelLink:
		// При ошибке шаг сохраняется, пользователь может прислать ссылку ещё раз
		if err := e.opts.Store.AppendChannel(ctx, ev.UserID, models.ChannelLink{Name: s.Name, Link: text}); err != nil {
			return e.fail("сохранение канала", ev.UserID, err)
		}
		return e.finish(ctx, ev, Reply{Text: textChannelSaved})
	case AwaitingUserZone:
		if !isZoneID(text) {
			return []Reply{prompt(textBadZone)}
		}
		if err := e.opts.Store.SetUserZone(ctx, ev.UserID, text); err != nil {
			return e.fail("сохранение личной зоны", ev.UserID, err)
		}
		return e.finish(ctx, ev, Reply{Text: textUserZoneSaved})
	case AwaitingAdminValue:
		// Шаг снимается до применения: неверный ввод не оставляет полуобработанного состояния
		e.drop(ctx, ev.UserID)
		if !e.opts.Membership.IsOwner(ev.UserID) {
			log.Printf("[ENGINE] шаг владельца у постороннего пользователя %d отброшен", ev.UserID)
			return nil
		}
		return e.applyAdmin(ctx, ev, s.Field, text)
	default:
		log.Printf("[ENGINE] неизвестный шаг %T у пользователя %d", st, ev.UserID)
		e.drop(ctx, ev.UserID)
		return nil
	}
}

// skipQualities завершает ввод качеств по кнопке Skip.
func (e *Engine) skipQualities(ctx context.Context, ev Event) []Reply {
	st, err := e.opts.Sessions.Load(ctx, ev.UserID)
	if err != nil {
		return e.fail("чтение шага", ev.UserID, err)
	}
	switch s := st.(type) {
	case AwaitingQualityName:
		return e.toConfirmation(ctx, ev, s.Draft)
	case AwaitingConfirmation:
		return e.toConfirmation(ctx, ev, s.Draft)
	case AwaitingQualityLink:
		// Качество уже названо, без ссылки его не пропустить: шаг сохраняется
		return []Reply{prompt(textAskQualityLink)}
	default:
		return []Reply{notice(ev, textNoDraft)}
	}
}

// toConfirmation переводит черновик к подтверждению. Пост без качеств не принимается.
func (e *Engine) toConfirmation(ctx context.Context, ev Event, d PostDraft) []Reply {
	if len(d.Links) == 0 {
		return []Reply{notice(ev, textNeedQuality)}
	}
	return e.advance(ctx, ev, AwaitingConfirmation{Draft: d},
		prompt(textConfirm+"\n\n"+summary(d), []Button{{Text: btnConfirm, Action: ActionConfirmPost}}))
}

// confirm публикует пост. Черновик удаляется только после успешной записи.
func (e *Engine) confirm(ctx context.Context, ev Event) []Reply {
	st, err := e.opts.Sessions.Load(ctx, ev.UserID)
	if err != nil {
		return e.fail("чтение шага", ev.UserID, err)
	}
	s, ok := st.(AwaitingConfirmation)
	if !ok {
		return []Reply{notice(ev, textNoDraft)}
	}
	if len(s.Draft.Links) == 0 {
		return []Reply{notice(ev, textNeedQuality)}
	}

	post, html, err := e.publish(ctx, ev.UserID, s.Draft)
	if err != nil {
		return e.fail("публикация поста", ev.UserID, err)
	}
	e.drop(ctx, ev.UserID)

	return []Reply{
		{Title: textSuccess, Text: textPreviewLink + e.PostURL(post.ID) + "\n" + textZone + post.ZoneID},
		{Code: html, CodeLang: "html"},
	}
}

// publish фиксирует зону, порог и снимок каналов, рендерит страницу и сохраняет пост.
func (e *Engine) publish(ctx context.Context, userID int64, d PostDraft) (*models.Post, string, error) {
	profile, err := e.opts.Store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("профиль: %w", err)
	}
	zone := ""
	if profile.ZoneID != nil {
		zone = *profile.ZoneID
	}
	if zone == "" {
		if zone, err = e.opts.Settings.ZoneID(ctx); err != nil {
			return nil, "", fmt.Errorf("глобальная зона: %w", err)
		}
	}
	clicks, err := e.opts.Settings.RequiredClicks(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("порог кликов: %w", err)
	}

	post := models.Post{
		CreatorID: userID,
		Title:     d.Title,
		Image:     d.Image,
		Language:  d.Language,
		Links:     slices.Clone(d.Links),
		Channels:  slices.Clone(profile.Channels),
		ZoneID:    zone,
		Clicks:    clicks,
		CreatedAt: e.opts.Now(),
	}
	html, err := e.opts.Render(post, post.ZoneID, post.Clicks)
	if err != nil {
		return nil, "", fmt.Errorf("рендер страницы: %w", err)
	}

	for attempt := 1; ; attempt++ {
		id, err := e.opts.NewID()
		if err != nil {
			return nil, "", fmt.Errorf("генерация id: %w", err)
		}
		post.ID = id
		err = e.opts.Store.CreatePost(ctx, post)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrDuplicateID) || attempt >= maxIDAttempts {
			return nil, "", err
		}
		log.Printf("[ENGINE] коллизия id поста %s, попытка %d", id, attempt)
	}
	log.Printf("[ENGINE] пользователь %d создал пост %s (зона %s, кликов %d)", userID, post.ID, post.ZoneID, post.Clicks)
	return &post, html, nil
}

// applyAdmin применяет значение настройки владельца.
func (e *Engine) applyAdmin(ctx context.Context, ev Event, field AdminField, value string) []Reply {
	switch field {
	case FieldZone:
		if !isZoneID(value) {
			return []Reply{{Text: textBadZone}}
		}
		if err := e.opts.Settings.SetZoneID(ctx, value); err != nil {
			return e.fail("запись глобальной зоны", ev.UserID, err)
		}
		return []Reply{{Text: textAdminZoneSaved}}
	case FieldClicks:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return []Reply{{Text: textBadClicks}}
		}
		if err := e.opts.Settings.SetRequiredClicks(ctx, n); err != nil {
			return e.fail("запись порога кликов", ev.UserID, err)
		}
		return []Reply{{Text: textAdminClicksSave}}
	case FieldOffer:
		if err := e.opts.Settings.SetPremiumOffer(ctx, value); err != nil {
			return e.fail("запись предложения", ev.UserID, err)
		}
		return []Reply{{Text: textOfferSaved}}
	case FieldAddMember:
		return e.addMember(ctx, ev, value)
	case FieldRemoveMember:
		return e.removeMember(ctx, ev, value)
	default:
		log.Printf("[ENGINE] неизвестное поле настройки %q", field)
		return nil
	}
}

// addMember разбирает строку "UserID | Days | Plan" и выдаёт подписку.
// Новый участник получает уведомление.
func (e *Engine) addMember(ctx context.Context, ev Event, value string) []Reply {
	userID, days, plan, ok := parseMember(value)
	if !ok {
		return []Reply{{Text: textBadFormat + "\n" + textAskAddMember}}
	}
	m, err := e.opts.Membership.Grant(ctx, userID, days, plan)
	if err != nil {
		return e.fail("выдача подписки", ev.UserID, err)
	}
	log.Printf("[ENGINE] подписка %q выдана %d до %s", m.Plan, m.UserID, m.ExpiresAt.Format(time.RFC3339))
	return []Reply{
		{Text: fmt.Sprintf("%s\n%d · %s · %s", textMemberAdded, m.UserID, m.Plan, m.ExpiresAt.Format("2006-01-02"))},
		{To: userID, Text: textMemberWelcome, Fallback: textWelcomeFailed},
	}
}

// removeMember удаляет подписку сразу, без подтверждения и без уведомления участника.
func (e *Engine) removeMember(ctx context.Context, ev Event, value string) []Reply {
	userID, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || userID <= 0 {
		return []Reply{{Text: textBadFormat}}
	}
	deleted, err := e.opts.Membership.Revoke(ctx, userID)
	if err != nil {
		return e.fail("удаление подписки", ev.UserID, err)
	}
	if !deleted {
		return []Reply{{Text: textMemberNotFound}}
	}
	log.Printf("[ENGINE] подписка %d удалена владельцем", userID)
	return []Reply{{Text: textMemberRemoved}}
}

func (e *Engine) menu(userID int64) []Reply {
	rows := [][]Button{
		{{Text: btnStartPost, Action: ActionStartPost}},
		{{Text: btnChannels, Action: ActionChannelsMenu}, {Text: btnUserZone, Action: ActionSetUserZone}},
		{{Text: btnPremium, Action: ActionViewPremium}},
	}
	if e.opts.Membership.IsOwner(userID) {
		rows = append(rows,
			[]Button{{Text: btnAdminZone, Action: ActionSetAdminZone}, {Text: btnAdminClicks, Action: ActionSetAdminClicks}},
			[]Button{{Text: btnOffer, Action: ActionSetOffer}, {Text: btnAddMember, Action: ActionAddMember}},
			[]Button{{Text: btnRemoveMember, Action: ActionRemoveMember}},
		)
	}
	return []Reply{{Title: textMenuTitle, Text: textMenu, Buttons: rows}}
}

func (e *Engine) channelsMenu(ctx context.Context, ev Event) []Reply {
	profile, err := e.opts.Store.GetUserProfile(ctx, ev.UserID)
	if err != nil {
		return e.fail("чтение профиля", ev.UserID, err)
	}
	var b strings.Builder
	if len(profile.Channels) == 0 {
		b.WriteString(textNoChannels)
	}
	for i, ch := range profile.Channels {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ch.Name)
	}
	return []Reply{{
		Title: textChannelsTitle,
		Text:  strings.TrimRight(b.String(), "\n"),
		Buttons: [][]Button{
			{{Text: btnAddChannel, Action: ActionAddChannel}},
			{{Text: btnClearChannels, Action: ActionClearChannels}},
		},
	}}
}

func (e *Engine) viewPremium(ctx context.Context, ev Event) []Reply {
	offer, err := e.opts.Settings.PremiumOffer(ctx)
	if err != nil {
		return e.fail("чтение предложения", ev.UserID, err)
	}
	text := offer
	if e.opts.OwnerHandle != "" {
		text += "\n\n" + textContact + strings.TrimPrefix(e.opts.OwnerHandle, "@")
	}
	return []Reply{{Title: textOfferTitle, Text: text}}
}

func (e *Engine) stats(ctx context.Context, ev Event) []Reply {
	s, err := storage.CollectStatistics(ctx, e.opts.Store)
	if err != nil {
		return e.fail("статистика", ev.UserID, err)
	}
	return []Reply{{Text: fmt.Sprintf(textStats, s.Posts, s.Profiles, s.Premium)}}
}

func (e *Engine) cancel(ctx context.Context, ev Event) []Reply {
	if err := e.opts.Sessions.Delete(ctx, ev.UserID); err != nil {
		return e.fail("отмена шага", ev.UserID, err)
	}
	return []Reply{{Text: textCancelled}}
}

// requirePremium возвращает nil, если действие разрешено.
func (e *Engine) requirePremium(ctx context.Context, ev Event) []Reply {
	ok, err := e.opts.Membership.IsPremium(ctx, ev.UserID)
	if err != nil {
		return e.fail("проверка подписки", ev.UserID, err)
	}
	if !ok {
		return []Reply{notice(ev, textDenied)}
	}
	return nil
}

// requireOwner возвращает nil для владельца.
func (e *Engine) requireOwner(ev Event) []Reply {
	if e.opts.Membership.IsOwner(ev.UserID) {
		return nil
	}
	log.Printf("[ENGINE] пользователь %d пытался выполнить действие владельца", ev.UserID)
	return []Reply{notice(ev, textOwnerOnly)}
}

// begin начинает сценарий. Незавершённый шаг любого сценария при этом сбрасывается.
func (e *Engine) begin(ctx context.Context, ev Event, s State, r Reply) []Reply {
	return e.advance(ctx, ev, s, r)
}

func (e *Engine) advance(ctx context.Context, ev Event, s State, r Reply) []Reply {
	if err := e.opts.Sessions.Save(ctx, ev.UserID, s); err != nil {
		return e.fail("запись шага", ev.UserID, err)
	}
	return []Reply{r}
}

func (e *Engine) finish(ctx context.Context, ev Event, r Reply) []Reply {
	e.drop(ctx, ev.UserID)
	return []Reply{r}
}

func (e *Engine) drop(ctx context.Context, userID int64) {
	if err := e.opts.Sessions.Delete(ctx, userID); err != nil {
		log.Printf("[ENGINE ERROR] не удалось удалить шаг пользователя %d: %v", userID, err)
	}
}

func (e *Engine) fail(op string, userID int64, err error) []Reply {
	log.Printf("[ENGINE ERROR] %s (пользователь %d): %v", op, userID, err)
	return []Reply{{Text: textFailure}}
}

var actionFields = map[string]AdminField{
	ActionSetAdminZone:   FieldZone,
	ActionSetAdminClicks: FieldClicks,
	ActionSetOffer:       FieldOffer,
	ActionAddMember:      FieldAddMember,
	ActionRemoveMember:   FieldRemoveMember,
}

var commandFields = map[string]AdminField{
	CommandSetZone:       FieldZone,
	CommandSetClicks:     FieldClicks,
	CommandSetOffer:      FieldOffer,
	CommandAddPremium:    FieldAddMember,
	CommandDeletePremium: FieldRemoveMember,
}

var adminPrompts = map[AdminField]string{
	FieldZone:         textAskAdminZone,
	FieldClicks:       textAskAdminClicks,
	FieldOffer:        textAskOffer,
	FieldAddMember:    textAskAddMember,
	FieldRemoveMember: textAskRemoveMember,
}

// prompt добавляет к вопросу строку с кнопкой отмены.
func prompt(text string, rows ...[]Button) Reply {
	rows = append(rows, []Button{{Text: btnCancel, Action: ActionCancel}})
	return Reply{Text: text, Buttons: rows}
}

// notice — уведомление; на нажатие кнопки показывается всплывающим окном.
func notice(ev Event, text string) Reply {
	return Reply{Text: text, Alert: ev.Kind == KindButton}
}

func summary(d PostDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎬 %s\n🌐 %s", d.Title, d.Language)
	for _, l := range d.Links {
		fmt.Fprintf(&b, "\n• %s", l.Quality)
	}
	return b.String()
}

// isZoneID проверяет, что идентификатор зоны состоит только из цифр.
func isZoneID(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseMember разбирает "UserID | Days | Plan". Всё после второго разделителя считается тарифом.
func parseMember(value string) (userID int64, days int, plan string, ok bool) {
	parts := strings.Split(value, "|")
	if len(parts) < 3 {
		return 0, 0, "", false
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || userID <= 0 {
		return 0, 0, "", false
	}
	days, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || days <= 0 {
		return 0, 0, "", false
	}
	plan = strings.TrimSpace(strings.Join(parts[2:], "|"))
	if plan == "" {
		return 0, 0, "", false
	}
	return userID, days, plan, true
}
