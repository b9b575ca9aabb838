package bot

import "avtobot/internal/adapter/greenapi"

// Button ids shared between the interactive menus and their text fallbacks.
const (
	btnProfile = "profile"
	btnSell    = "sell"
	btnBuy     = "buy"

	btnSellCreate = "sell_create"
	btnSellList   = "sell_list"

	btnBuyAll       = "buy_all"
	btnBuyFilter    = "buy_filter"
	btnBuySearch    = "buy_search"
	btnBuyFavorites = "buy_favorites"
)

func mainMenuButtons() []greenapi.Button {
	return []greenapi.Button{
		{ButtonID: btnProfile, ButtonText: "Профиль"},
		{ButtonID: btnSell, ButtonText: "Продажа"},
		{ButtonID: btnBuy, ButtonText: "Покупка"},
	}
}

func sellMenuButtons() []greenapi.Button {
	return []greenapi.Button{
		{ButtonID: btnSellCreate, ButtonText: "Разместить объявление"},
		{ButtonID: btnSellList, ButtonText: "Мои объявления"},
	}
}

func buyMenuButtons() []greenapi.Button {
	return []greenapi.Button{
		{ButtonID: btnBuyAll, ButtonText: "Все объявления"},
		{ButtonID: btnBuyFilter, ButtonText: "Фильтры"},
		{ButtonID: btnBuySearch, ButtonText: "Поиск авто"},
		{ButtonID: btnBuyFavorites, ButtonText: "Избранное"},
	}
}

// textButtons maps lowercased message text to the same actions as the
// interactive buttons, for clients that do not render them.
var textButtons = map[string]string{
	"меню":                  "menu",
	"профиль":               btnProfile,
	"продажа":               btnSell,
	"покупка":               btnBuy,
	"разместить объявление": btnSellCreate,
	"мои объявления":        btnSellList,
	"все объявления":        btnBuyAll,
	"фильтры":               btnBuyFilter,
	"поиск авто":            btnBuySearch,
	"избранное":             btnBuyFavorites,
}
