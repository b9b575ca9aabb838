package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"avtobot/internal/catalog"
	"avtobot/internal/platform/metrics"
	"avtobot/internal/repository"
)

const (
	msgAdNotFound   = "Объявление не найдено."
	msgCatalogError = "Не удалось загрузить объявления. Попробуйте позже."
)

// handleStart greets the sender. Registration already happened in Handle.
func (b *Bot) handleStart(ctx context.Context, sender, chatID string) {
	b.filters.Reset(sender)
	b.send(ctx, chatID, "Добро пожаловать в автобарахолку! Здесь можно продать и купить автомобиль, не выходя из чата.")
	b.sendMainMenu(ctx, chatID)
}

func (b *Bot) handleBalance(ctx context.Context, sender, chatID string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ваш баланс: %d руб.\n", b.users.Balance(ctx, sender))

	payments, err := b.users.Payments(ctx, sender)
	if err != nil {
		b.log.Warnf("bot: payments of %s: %v", sender, err)
	}
	if len(payments) > 0 {
		sb.WriteString("\nПоследние операции:\n")
		if len(payments) > 5 {
			payments = payments[:5]
		}
		for _, p := range payments {
			fmt.Fprintf(&sb, "%s +%d руб.\n", p.PaymentDate.Format("02.01.2006"), p.Amount)
		}
	}
	sb.WriteString("\nПополнить: \"пополнить 500\".")
	b.send(ctx, chatID, sb.String())
}

func (b *Bot) handleTopUp(ctx context.Context, sender, chatID, rest string) {
	amount, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || amount <= 0 {
		b.send(ctx, chatID, "Укажите сумму пополнения, например \"пополнить 500\".")
		return
	}
	balance, err := b.users.TopUp(ctx, sender, amount)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("top_up").Inc()
		b.log.Errorf("bot: top up %d for %s: %v", amount, sender, err)
		b.send(ctx, chatID, "Не удалось пополнить баланс. Попробуйте позже.")
		return
	}
	b.send(ctx, chatID, fmt.Sprintf("Баланс пополнен на %d руб. Теперь на счету %d руб.", amount, balance))
}

func (b *Bot) handleProfile(ctx context.Context, sender, chatID string) {
	user, err := b.users.Get(ctx, sender)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			b.send(ctx, chatID, "Вы еще не зарегистрированы. Напишите /start.")
			return
		}
		metrics.HandlerErrors.WithLabelValues("profile").Inc()
		b.log.Errorf("bot: load profile %s: %v", sender, err)
		b.send(ctx, chatID, "Не удалось загрузить профиль. Попробуйте позже.")
		return
	}

	name := "не указано"
	if user.Username != nil && *user.Username != "" {
		name = *user.Username
	}
	b.send(ctx, chatID, fmt.Sprintf(
		"Профиль\nID: %s\nИмя: %s\nБаланс: %d руб.\nЗарегистрирован: %s",
		user.Sender, name, user.Balance, user.RegisteredAt.Format("02.01.2006")))
}

func (b *Bot) handleMyAds(ctx context.Context, sender, chatID string) {
	preview, err := b.ads.Preview(ctx, sender, 5)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("my_ads").Inc()
		b.log.Errorf("bot: my ads for %s: %v", sender, err)
		b.send(ctx, chatID, "Не удалось загрузить ваши объявления. Попробуйте позже.")
		return
	}
	if preview.Total == 0 {
		b.send(ctx, chatID, "У вас пока нет объявлений. Нажмите \"Разместить объявление\".")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Ваши объявления: всего %d, активных %d.\n", preview.Total, preview.Active)
	for _, ad := range preview.Ads {
		status := "снято"
		if ad.IsActive {
			status = "активно"
		}
		if mod, err := b.moderation.StatusForAd(ctx, ad.ID); err == nil {
			status, _ = mod.Status.StatusInfo()
		}
		fmt.Fprintf(&sb, "\nid%d %s\nЦена: %d руб. Статус: %s. Просмотров: %d\n",
			ad.ID, ad.Title, ad.Price, status, b.ads.ViewCount(ctx, ad.ID))
	}
	b.send(ctx, chatID, sb.String())

	for _, ad := range preview.Ads {
		if url, ok := preview.Photos[ad.ID]; ok {
			b.sendPhoto(ctx, chatID, url)
		}
	}
}

const filterUsage = `Команды фильтров:
цена 100000-500000
год 2015 или год 2010-2018
пробег 0-100000
марка Lada ("марка" покажет список, "марка любой" сбросит)
регион Москва
состояние целый / после дтп
сортировка цена или дата, направление возр / убыв
показать, дальше, назад, сброс`

func (b *Bot) handleFilterHelp(ctx context.Context, sender, chatID string) {
	b.send(ctx, chatID, catalog.Describe(b.filters.Get(sender))+"\n\n"+filterUsage)
}

func (b *Bot) renderCatalog(ctx context.Context, sender, chatID string) {
	text, err := b.renderer.Render(ctx, sender, b.filters.Get(sender))
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("catalog").Inc()
		b.log.Errorf("bot: render catalog for %s: %v", sender, err)
		b.send(ctx, chatID, msgCatalogError)
		return
	}
	b.send(ctx, chatID, text)
}

func (b *Bot) handleCatalogCommand(ctx context.Context, sender, chatID, text string) bool {
	state := b.filters.Get(sender)
	out, handled := catalog.Apply(ctx, &state, text, b.brands)
	if !handled {
		return false
	}
	if out.Changed {
		b.filters.Set(sender, state)
	}
	if out.Reply != "" {
		b.send(ctx, chatID, out.Reply)
	}
	if out.Render {
		b.renderCatalog(ctx, sender, chatID)
	}
	return true
}

func (b *Bot) handleAdReference(ctx context.Context, sender, chatID, text string) bool {
	if _, ok, _ := b.renderer.Resolve(sender, text); !ok {
		return false
	}
	id, ok := b.resolveRef(ctx, sender, text)
	if !ok {
		b.send(ctx, chatID, msgCatalogError)
		return true
	}
	b.sendAdDetail(ctx, sender, chatID, id)
	return true
}

// resolveRef turns an ad reference into an id, rendering the first page
// behind the scenes when the position cache is still empty.
func (b *Bot) resolveRef(ctx context.Context, sender, text string) (int64, bool) {
	id, ok, needRender := b.renderer.Resolve(sender, text)
	if !ok {
		return 0, false
	}
	if needRender {
		if _, err := b.renderer.Render(ctx, sender, b.filters.Get(sender)); err != nil {
			b.log.Errorf("bot: render for ref %q from %s: %v", text, sender, err)
			return 0, false
		}
		id, ok, _ = b.renderer.Resolve(sender, text)
	}
	return id, ok
}

func (b *Bot) sendAdDetail(ctx context.Context, sender, chatID string, id int64) {
	ad, err := b.ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			b.send(ctx, chatID, msgAdNotFound)
			return
		}
		metrics.HandlerErrors.WithLabelValues("ad_detail").Inc()
		b.log.Errorf("bot: load ad %d: %v", id, err)
		b.send(ctx, chatID, msgCatalogError)
		return
	}

	b.ads.RecordView(ctx, ad.ID, sender)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s %s, %d г.\nПробег: %d км\nСостояние: %s\nРегион: %s\nЦена: %d руб.\n\n%s\n",
		ad.Title, ad.BrandName, ad.Model, ad.YearCar, ad.MileageKm, ad.Condition, ad.Region, ad.Price, ad.Description)
	if ad.Sender == sender {
		if mod, err := b.moderation.StatusForAd(ctx, ad.ID); err == nil {
			title, hint := mod.Status.StatusInfo()
			fmt.Fprintf(&sb, "\nСтатус: %s. %s\n", title, hint)
		}
		fmt.Fprintf(&sb, "Просмотров: %d\n", b.ads.ViewCount(ctx, ad.ID))
	} else {
		fmt.Fprintf(&sb, "\nПродавец: %s\nЧтобы сохранить, напишите \"в избранное %d\".", ad.Sender, ad.ID)
	}
	b.send(ctx, chatID, sb.String())

	images, err := b.ads.Images(ctx, ad.ID)
	if err != nil {
		b.log.Warnf("bot: photos for ad %d: %v", ad.ID, err)
		return
	}
	for _, img := range images {
		b.sendPhoto(ctx, chatID, img.ImageURL)
	}
}

func (b *Bot) sendPhoto(ctx context.Context, chatID, url string) {
	var err error
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		err = b.replier.SendFileByURL(ctx, chatID, url, "photo.jpg", "")
	} else {
		err = b.replier.SendFileByUpload(ctx, chatID, url, "")
	}
	if err != nil {
		b.log.Warnf("bot: send photo %s to %s: %v", url, chatID, err)
	}
}

func (b *Bot) handleSearch(ctx context.Context, sender, chatID, query string) {
	ads, err := b.ads.Search(ctx, query, 10)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("search").Inc()
		b.log.Errorf("bot: search %q for %s: %v", query, sender, err)
		b.send(ctx, chatID, msgCatalogError)
		return
	}
	if len(ads) == 0 {
		b.send(ctx, chatID, fmt.Sprintf("По запросу %q ничего не найдено.", query))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Найдено по запросу %q:\n", query)
	for _, ad := range ads {
		fmt.Fprintf(&sb, "\nid%d %s\n%s %s, %d г., %d руб.\n", ad.ID, ad.Title, ad.BrandName, ad.Model, ad.YearCar, ad.Price)
	}
	sb.WriteString("\nОтправьте id объявления, чтобы открыть его.")
	b.send(ctx, chatID, sb.String())
}

func (b *Bot) handleFavoritesList(ctx context.Context, sender, chatID string) {
	entries, err := b.favorites.List(ctx, sender)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("favorites").Inc()
		b.log.Errorf("bot: favorites for %s: %v", sender, err)
		b.send(ctx, chatID, "Не удалось загрузить избранное. Попробуйте позже.")
		return
	}
	if len(entries) == 0 {
		b.send(ctx, chatID, "В избранном пока пусто. Откройте объявление и напишите \"в избранное <номер>\".")
		return
	}

	var sb strings.Builder
	sb.WriteString("Избранное:\n")
	for _, e := range entries {
		if e.Ad == nil {
			fmt.Fprintf(&sb, "\nid%d (объявление удалено)\n", e.Favorite.AdID)
			continue
		}
		fmt.Fprintf(&sb, "\nid%d %s\nЦена: %d руб.\n", e.Ad.ID, e.Ad.Title, e.Ad.Price)
	}
	sb.WriteString("\nУдалить: \"из избранного <номер>\".")
	b.send(ctx, chatID, sb.String())
}

// handleFavoriteCommand processes "в избранное <ref>" and "из избранного
// <ref>". The reference resolves the same way as opening an ad does.
func (b *Bot) handleFavoriteCommand(ctx context.Context, sender, chatID, lowered string) bool {
	if rest, found := strings.CutPrefix(lowered, "в избранное"); found {
		b.favoriteByRef(ctx, sender, chatID, rest, true)
		return true
	}
	for _, prefix := range []string{"из избранного", "удалить из избранного"} {
		if rest, found := strings.CutPrefix(lowered, prefix); found {
			b.favoriteByRef(ctx, sender, chatID, rest, false)
			return true
		}
	}
	return false
}

func (b *Bot) favoriteByRef(ctx context.Context, sender, chatID, ref string, add bool) {
	id, ok := b.resolveRef(ctx, sender, strings.TrimSpace(ref))
	if !ok {
		b.send(ctx, chatID, "Укажите номер объявления, например \"в избранное 2\".")
		return
	}

	// The rendered page still holds the ad, so the confirmation can name it.
	name := ""
	if ad, ok := b.renderer.Cached(sender, id); ok {
		name = " \"" + ad.Title + "\""
	}

	if add {
		switch err := b.favorites.Add(ctx, sender, id); {
		case err == nil:
			b.send(ctx, chatID, fmt.Sprintf("Объявление id%d%s добавлено в избранное.", id, name))
		case errors.Is(err, repository.ErrAdNotFound):
			b.send(ctx, chatID, msgAdNotFound)
		default:
			metrics.HandlerErrors.WithLabelValues("favorites").Inc()
			b.log.Errorf("bot: add favorite %d for %s: %v", id, sender, err)
			b.send(ctx, chatID, "Не удалось добавить в избранное. Попробуйте позже.")
		}
		return
	}

	switch err := b.favorites.Remove(ctx, sender, id); {
	case err == nil:
		b.send(ctx, chatID, fmt.Sprintf("Объявление id%d%s удалено из избранного.", id, name))
	case errors.Is(err, repository.ErrFavoriteNotFound):
		b.send(ctx, chatID, "Этого объявления нет в избранном.")
	default:
		metrics.HandlerErrors.WithLabelValues("favorites").Inc()
		b.log.Errorf("bot: remove favorite %d for %s: %v", id, sender, err)
		b.send(ctx, chatID, "Не удалось изменить избранное. Попробуйте позже.")
	}
}
