package bot

import (
	"context"
	"log"

	"github.com/go-faster/errors"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/markup"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"unlockbot/pkg/conversation"
)

// codeChunk — максимальная длина блока кода в одном сообщении (лимит Telegram 4096).
const codeChunk = 3500

// Handler обрабатывает события пользователя. Его реализует conversation.Engine.
type Handler interface {
	Handle(ctx context.Context, ev conversation.Event) []conversation.Reply
}

// Config — параметры подключения бота.
type Config struct {
	AppID   int
	AppHash string
	Token   string
	Proxy   *Proxy
	// PerSecond ограничивает исходящие сообщения, чтобы не получить FLOOD_WAIT.
	PerSecond float64
}

// Bot связывает Telegram с обработчиком событий.
type Bot struct {
	cfg     Config
	handler Handler
	storage session.Storage
	logger  *zap.Logger
	peers   *peerCache
	limiter *rate.Limiter

	api    *tg.Client
	sender *message.Sender
	// sendReply отправляет один ответ; в тестах подменяется
	sendReply func(ctx context.Context, to int64, r conversation.Reply) error
}

func New(cfg Config, handler Handler, storage session.Storage, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	perSecond := cfg.PerSecond
	if perSecond <= 0 {
		perSecond = 20
	}
	b := &Bot{
		cfg:     cfg,
		handler: handler,
		storage: storage,
		logger:  logger,
		peers:   newPeerCache(),
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
	b.sendReply = b.send
	return b
}

// Run подключается к Telegram, авторизуется как бот и обрабатывает обновления до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(b.onMessage)
	dispatcher.OnBotCallbackQuery(b.onCallback)

	client, err := newClient(b.cfg.AppID, b.cfg.AppHash, b.storage, b.cfg.Proxy, dispatcher, b.logger)
	if err != nil {
		return err
	}
	b.api = client.API()
	b.sender = message.NewSender(b.api)

	return client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return errors.Wrap(err, "auth status")
		}
		if !status.Authorized {
			if _, err := client.Auth().Bot(ctx, b.cfg.Token); err != nil {
				return errors.Wrap(err, "bot auth")
			}
		}
		log.Printf("[BOT] бот авторизован, ожидаем обновления")

		<-ctx.Done()
		return ctx.Err()
	})
}

func (b *Bot) onMessage(ctx context.Context, e tg.Entities, upd *tg.UpdateNewMessage) error {
	msg, ok := upd.Message.(*tg.Message)
	if !ok || msg.Out {
		return nil
	}
	// Бот работает только в личных сообщениях
	peer, ok := msg.PeerID.(*tg.PeerUser)
	if !ok {
		return nil
	}
	b.peers.remember(e)

	replies := b.handler.Handle(ctx, parseMessage(peer.UserID, msg.Message))
	b.deliver(ctx, peer.UserID, replies)
	return nil
}

func (b *Bot) onCallback(ctx context.Context, e tg.Entities, upd *tg.UpdateBotCallbackQuery) error {
	b.peers.remember(e)

	replies := b.handler.Handle(ctx, parseCallback(upd.UserID, upd.Data))

	// На нажатие кнопки отвечаем ровно один раз: всплывающим окном или пустым ответом
	answer := &tg.MessagesSetBotCallbackAnswerRequest{QueryID: upd.QueryID}
	rest := replies[:0:0]
	for _, r := range replies {
		if r.Alert && answer.Message == "" {
			answer.Message = r.Text
			answer.Alert = true
			continue
		}
		rest = append(rest, r)
	}
	if _, err := b.api.MessagesSetBotCallbackAnswer(ctx, answer); err != nil {
		log.Printf("[BOT ERROR] ответ на нажатие кнопки %d: %v", upd.UserID, err)
	}

	b.deliver(ctx, upd.UserID, rest)
	return nil
}

// deliver отправляет ответы. Ошибка одного сообщения не прерывает отправку остальных.
// Если сообщение другому пользователю не доставлено, автору уходит его Fallback.
func (b *Bot) deliver(ctx context.Context, from int64, replies []conversation.Reply) {
	for _, r := range replies {
		to := r.To
		if to == 0 {
			to = from
		}
		err := b.sendReply(ctx, to, r)
		if err == nil {
			continue
		}
		log.Printf("[BOT ERROR] отправка сообщения %d: %v", to, err)
		if to == from || r.Fallback == "" {
			continue
		}
		if err := b.sendReply(ctx, from, conversation.Reply{Text: r.Fallback}); err != nil {
			log.Printf("[BOT ERROR] уведомление о недоставке %d: %v", from, err)
		}
	}
}

func (b *Bot) send(ctx context.Context, to int64, r conversation.Reply) error {
	var parts [][]styling.StyledTextOption
	if r.Title != "" || r.Text != "" {
		var opts []styling.StyledTextOption
		if r.Title != "" {
			opts = append(opts, styling.Bold(r.Title))
			if r.Text != "" {
				opts = append(opts, styling.Plain("\n\n"))
			}
		}
		if r.Text != "" {
			opts = append(opts, styling.Plain(r.Text))
		}
		parts = append(parts, opts)
	}
	if r.Code != "" {
		for _, chunk := range splitText(r.Code, codeChunk) {
			parts = append(parts, []styling.StyledTextOption{styling.Pre(chunk, r.CodeLang)})
		}
	}

	for i, opts := range parts {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		req := b.sender.To(b.peers.peer(to))
		// Клавиатура прикрепляется к последнему сообщению ответа
		if i == len(parts)-1 && len(r.Buttons) > 0 {
			if _, err := req.Markup(keyboard(r.Buttons)).StyledText(ctx, opts...); err != nil {
				return errors.Wrap(err, "send with markup")
			}
			continue
		}
		if _, err := req.StyledText(ctx, opts...); err != nil {
			return errors.Wrap(err, "send")
		}
	}
	return nil
}

func keyboard(rows [][]conversation.Button) tg.ReplyMarkupClass {
	out := make([]tg.KeyboardButtonRow, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tg.KeyboardButtonClass, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, markup.Callback(btn.Text, []byte(btn.Action)))
		}
		out = append(out, markup.Row(buttons...))
	}
	return markup.InlineKeyboard(out...)
}
