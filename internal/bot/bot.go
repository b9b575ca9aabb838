package bot

import (
	"context"
	"strings"

	"avtobot/internal/adapter/greenapi"
	"avtobot/internal/catalog"
	"avtobot/internal/platform/logger"
	"avtobot/internal/platform/metrics"
	"avtobot/internal/repository"
	"avtobot/internal/sellform"
	"avtobot/internal/service"
	"avtobot/internal/session"
)

// Replier is the outbound half of the chat transport.
type Replier interface {
	SendMessage(ctx context.Context, chatID, text string) error
	SendButtons(ctx context.Context, chatID, header, body, footer string, buttons []greenapi.Button) error
	SendFileByURL(ctx context.Context, chatID, fileURL, fileName, caption string) error
	SendFileByUpload(ctx context.Context, chatID, filePath, caption string) error
}

const dedupCapacity = 512

// Bot wires every feature behind one notification handler.
type Bot struct {
	replier    Replier
	users      service.UserService
	ads        service.AdService
	favorites  service.FavoriteService
	moderation service.ModerationService
	sellForm   *sellform.Manager
	filters    *catalog.FileStore
	renderer   *catalog.Renderer
	brands     repository.BrandRepository

	dedup      *session.Dedup
	searchWait *session.Store[bool]

	allowed   map[string]struct{}
	autoReply string
	log       logger.Logger
}

type Deps struct {
	Replier    Replier
	Users      service.UserService
	Ads        service.AdService
	Favorites  service.FavoriteService
	Moderation service.ModerationService
	SellForm   *sellform.Manager
	Filters    *catalog.FileStore
	Renderer   *catalog.Renderer
	Brands     repository.BrandRepository
	Allowed    map[string]struct{}
	AutoReply  string
	Logger     logger.Logger
}

func New(d Deps) *Bot {
	return &Bot{
		replier:    d.Replier,
		users:      d.Users,
		ads:        d.Ads,
		favorites:  d.Favorites,
		moderation: d.Moderation,
		sellForm:   d.SellForm,
		filters:    d.Filters,
		renderer:   d.Renderer,
		brands:     d.Brands,
		dedup:      session.NewDedup(dedupCapacity),
		searchWait: session.NewStore[bool](),
		allowed:    d.Allowed,
		autoReply:  d.AutoReply,
		log:        d.Logger,
	}
}

// Handle processes one chat notification. Errors become chat replies or log
// lines; Handle itself never fails the polling loop.
func (b *Bot) Handle(ctx context.Context, n *greenapi.Notification) {
	if n == nil || n.TypeWebhook != greenapi.WebhookIncoming {
		return
	}
	metrics.MessagesProcessed.WithLabelValues(n.MessageData.TypeMessage).Inc()

	if b.dedup.Seen(n.IDMessage) {
		b.log.Debugf("bot: duplicate notification %s skipped", n.IDMessage)
		return
	}

	sender := n.Sender()
	chatID := n.ChatID()
	if len(b.allowed) > 0 {
		if _, ok := b.allowed[sender]; !ok {
			b.log.Infof("bot: sender %s not in whitelist, ignoring", sender)
			return
		}
	}

	// Almost every interaction writes rows keyed by sender, so registration
	// happens up front rather than only on /start.
	b.users.Ensure(ctx, sender, n.SenderData.SenderName)

	if id := n.ButtonID(); id != "" {
		b.handleButton(ctx, sender, chatID, id)
		return
	}

	if n.IsMedia() {
		b.handleMedia(ctx, sender, chatID, n)
		return
	}

	if text := strings.TrimSpace(n.Text()); text != "" {
		b.handleText(ctx, sender, chatID, text)
	}
}

func (b *Bot) handleMedia(ctx context.Context, sender, chatID string, n *greenapi.Notification) {
	media := n.Media()
	if media == nil {
		return
	}
	reply, handled := b.sellForm.HandleMedia(ctx, sender, media.DownloadURL, media.FileName)
	if handled {
		b.send(ctx, chatID, reply)
	}
}

func (b *Bot) handleText(ctx context.Context, sender, chatID, text string) {
	lowered := strings.ToLower(text)

	switch lowered {
	case "/start", "start", "старт":
		b.handleStart(ctx, sender, chatID)
		return
	case "баланс":
		b.handleBalance(ctx, sender, chatID)
		return
	}

	// An in-flight sell form captures all text, including its cancel words.
	if reply, handled := b.sellForm.HandleText(ctx, sender, text); handled {
		b.send(ctx, chatID, reply)
		return
	}

	if id, ok := textButtons[lowered]; ok {
		b.handleButton(ctx, sender, chatID, id)
		return
	}

	if waiting, _ := b.searchWait.Get(sender); waiting {
		b.searchWait.Delete(sender)
		b.handleSearch(ctx, sender, chatID, text)
		return
	}

	if rest, found := strings.CutPrefix(lowered, "пополнить"); found {
		b.handleTopUp(ctx, sender, chatID, rest)
		return
	}

	if b.handleFavoriteCommand(ctx, sender, chatID, lowered) {
		return
	}

	if b.handleCatalogCommand(ctx, sender, chatID, text) {
		return
	}

	if b.handleAdReference(ctx, sender, chatID, text) {
		return
	}

	b.send(ctx, chatID, b.autoReply)
}

func (b *Bot) handleButton(ctx context.Context, sender, chatID, id string) {
	switch id {
	case "menu":
		b.sendMainMenu(ctx, chatID)
	case btnProfile:
		b.handleProfile(ctx, sender, chatID)
	case btnSell:
		b.sendButtons(ctx, chatID, "Продажа", "Что вы хотите сделать?", sellMenuButtons())
	case btnBuy:
		b.sendButtons(ctx, chatID, "Покупка", "Выберите раздел:", buyMenuButtons())
	case btnSellCreate:
		b.send(ctx, chatID, b.sellForm.Start(sender))
	case btnSellList:
		b.handleMyAds(ctx, sender, chatID)
	case btnBuyAll:
		b.filters.Reset(sender)
		b.renderCatalog(ctx, sender, chatID)
	case btnBuyFilter:
		b.handleFilterHelp(ctx, sender, chatID)
	case btnBuySearch:
		b.searchWait.Set(sender, true)
		b.send(ctx, chatID, "Введите поисковый запрос (марка, модель или слова из описания):")
	case btnBuyFavorites:
		b.handleFavoritesList(ctx, sender, chatID)
	default:
		b.log.Warnf("bot: unknown button %q from %s", id, sender)
	}
}

func (b *Bot) send(ctx context.Context, chatID, text string) {
	if text == "" {
		return
	}
	if err := b.replier.SendMessage(ctx, chatID, text); err != nil {
		metrics.HandlerErrors.WithLabelValues("send").Inc()
		b.log.Errorf("bot: send to %s: %v", chatID, err)
	}
}

func (b *Bot) sendButtons(ctx context.Context, chatID, header, body string, buttons []greenapi.Button) {
	if err := b.replier.SendButtons(ctx, chatID, header, body, "", buttons); err != nil {
		b.log.Warnf("bot: buttons to %s failed, falling back to text: %v", chatID, err)
		var sb strings.Builder
		sb.WriteString(header + "\n" + body + "\n")
		for _, btn := range buttons {
			sb.WriteString("- " + btn.ButtonText + "\n")
		}
		b.send(ctx, chatID, sb.String())
	}
}

func (b *Bot) sendMainMenu(ctx context.Context, chatID string) {
	b.sendButtons(ctx, chatID, "Главное меню", "Выберите раздел:", mainMenuButtons())
}
