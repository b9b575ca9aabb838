package sellform

import "avtobot/internal/domain/entity"

// step is one question of the sell wizard. The photo step carries no
// validator; Manager handles attachments itself.
type step struct {
	key      string
	prompt   string
	validate func(form *entity.NewAdInput, raw string) error
}

const maxPhotos = 3

var steps = []step{
	{
		key:      "title",
		prompt:   "Введите заголовок объявления (минимум 3 символа):",
		validate: validateTitle,
	},
	{
		key:      "description",
		prompt:   "Введите описание автомобиля (минимум 10 символов):",
		validate: validateDescription,
	},
	{
		key:      "price",
		prompt:   "Введите цену в рублях (целое число):",
		validate: validatePrice,
	},
	{
		key:      "brand",
		prompt:   "Введите марку автомобиля:",
		validate: validateBrand,
	},
	{
		key:      "model",
		prompt:   "Введите модель:",
		validate: validateModel,
	},
	{
		key:      "year",
		prompt:   "Введите год выпуска:",
		validate: validateYear,
	},
	{
		key:      "mileage",
		prompt:   "Введите пробег в километрах:",
		validate: validateMileage,
	},
	{
		key:      "vin",
		prompt:   "Введите VIN номер (минимум 5 символов):",
		validate: validateVIN,
	},
	{
		key:      "region",
		prompt:   "Введите регион продажи:",
		validate: validateRegion,
	},
	{
		key:      "condition",
		prompt:   "Укажите состояние автомобиля (целый / после дтп):",
		validate: validateCondition,
	},
	{
		key:    "photos",
		prompt: "Отправьте до 3 фотографий автомобиля. Когда закончите, напишите \"готово\".",
	},
}

var photoStepIndex = len(steps) - 1

// cancelWords aborts the wizard from any step.
var cancelWords = map[string]struct{}{
	"отмена": {},
	"cancel": {},
	"стоп":   {},
	"stop":   {},
	"меню":   {},
	"menu":   {},
}

func isCancelWord(text string) bool {
	_, ok := cancelWords[text]
	return ok
}

func isDoneWord(text string) bool {
	return text == "готово" || text == "done"
}
