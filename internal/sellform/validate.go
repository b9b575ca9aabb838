package sellform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"avtobot/internal/domain/entity"
)

// Numeric fields land in Postgres integer columns, so anything above this
// bound is rejected up front.
const maxIntValue = 2147483647

const minCarYear = 1950

// parseIntField parses a user-typed integer. Digit-group spaces are common
// in chat ("1 500 000"), so embedded spaces are stripped first.
func parseIntField(raw string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, errors.New("введите целое число")
	}
	return v, nil
}

func validateTitle(form *entity.NewAdInput, raw string) error {
	v := strings.TrimSpace(raw)
	if len([]rune(v)) < 3 {
		return errors.New("заголовок должен быть не короче 3 символов")
	}
	form.Title = v
	return nil
}

func validateDescription(form *entity.NewAdInput, raw string) error {
	v := strings.TrimSpace(raw)
	if len([]rune(v)) < 10 {
		return errors.New("описание должно быть не короче 10 символов")
	}
	form.Description = v
	return nil
}

func validatePrice(form *entity.NewAdInput, raw string) error {
	v, err := parseIntField(raw)
	if err != nil {
		return err
	}
	if v <= 0 {
		return errors.New("цена должна быть больше нуля")
	}
	if v > maxIntValue {
		return errors.New("цена слишком велика")
	}
	form.Price = v
	return nil
}

func validateBrand(form *entity.NewAdInput, raw string) error {
	v := strings.TrimSpace(raw)
	if len([]rune(v)) < 2 {
		return errors.New("название марки должно быть не короче 2 символов")
	}
	form.Brand = v
	return nil
}

func validateModel(form *entity.NewAdInput, raw string) error {
	v := strings.TrimSpace(raw)
	if v == "" {
		return errors.New("модель не может быть пустой")
	}
	form.Model = v
	return nil
}

func validateYear(form *entity.NewAdInput, raw string) error {
	v, err := parseIntField(raw)
	if err != nil {
		return err
	}
	maxYear := time.Now().Year() + 1
	if v < minCarYear || v > maxYear {
		return fmt.Errorf("год должен быть в диапазоне %d-%d", minCarYear, maxYear)
	}
	form.Year = v
	return nil
}

func validateMileage(form *entity.NewAdInput, raw string) error {
	v, err := parseIntField(raw)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("пробег не может быть отрицательным")
	}
	if v > maxIntValue {
		return errors.New("пробег слишком велик")
	}
	form.Mileage = v
	return nil
}

func validateVIN(form *entity.NewAdInput, raw string) error {
	v := strings.TrimSpace(raw)
	if len([]rune(v)) < 5 {
		return errors.New("VIN должен быть не короче 5 символов")
	}
	form.VIN = strings.ToUpper(v)
	return nil
}

func validateRegion(form *entity.NewAdInput, raw string) error {
	v := strings.TrimSpace(raw)
	if len([]rune(v)) < 2 {
		return errors.New("название региона должно быть не короче 2 символов")
	}
	form.Region = v
	return nil
}

func validateCondition(form *entity.NewAdInput, raw string) error {
	cond, ok := entity.ParseCondition(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return fmt.Errorf("укажите состояние: %q или %q", entity.ConditionIntact, entity.ConditionCrashed)
	}
	form.Condition = string(cond)
	return nil
}
