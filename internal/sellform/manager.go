package sellform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"avtobot/internal/adapter/storage"
	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
	"avtobot/internal/service"
	"avtobot/internal/session"
)

const (
	msgCancelled     = "Создание объявления отменено."
	msgNeedPhoto     = "Добавьте хотя бы одну фотографию, прежде чем завершить."
	msgPhotoStepText = "Сейчас идет загрузка фотографий. Отправьте фото или напишите \"готово\"."
	msgMediaRetry    = "Не удалось загрузить фотографию. Отправьте ее еще раз."
	msgSaveFailed    = "Не удалось сохранить объявление. Попробуйте позже."
	msgVINTaken      = "Объявление с таким VIN уже существует. Создание отменено."
)

// MediaDownloader fetches an attachment body by its download URL.
type MediaDownloader interface {
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

type formState struct {
	stepIndex int
	input     entity.NewAdInput
}

// Manager drives the step-by-step sell wizard. One in-flight form per
// sender; starting a new one discards the previous.
type Manager struct {
	forms  *session.Store[*formState]
	ads    service.AdService
	photos storage.PhotoStorage
	media  MediaDownloader
	log    logger.Logger
}

func NewManager(ads service.AdService, photos storage.PhotoStorage, media MediaDownloader, log logger.Logger) *Manager {
	return &Manager{
		forms:  session.NewStore[*formState](),
		ads:    ads,
		photos: photos,
		media:  media,
		log:    log,
	}
}

// Start begins (or restarts) the wizard for the sender and returns the
// first prompt.
func (m *Manager) Start(sender string) string {
	m.forms.Set(sender, &formState{input: entity.NewAdInput{Sender: sender}})
	return steps[0].prompt
}

// Active reports whether the sender has a form in flight.
func (m *Manager) Active(sender string) bool {
	return m.forms.Has(sender)
}

// HandleText feeds one text message into the wizard. The second return is
// false when the sender has no form in flight.
func (m *Manager) HandleText(ctx context.Context, sender, text string) (string, bool) {
	state, ok := m.forms.Get(sender)
	if !ok {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(text))
	if isCancelWord(normalized) {
		m.forms.Delete(sender)
		return msgCancelled, true
	}

	if state.stepIndex == photoStepIndex {
		if !isDoneWord(normalized) {
			return msgPhotoStepText, true
		}
		if len(state.input.Photos) == 0 {
			return msgNeedPhoto, true
		}
		return m.finalize(ctx, sender, state), true
	}

	current := steps[state.stepIndex]
	if err := current.validate(&state.input, text); err != nil {
		return fmt.Sprintf("Ошибка: %s. %s", err, current.prompt), true
	}

	state.stepIndex++
	m.forms.Set(sender, state)
	return steps[state.stepIndex].prompt, true
}

// HandleMedia feeds one attachment into the wizard. Outside the photo step
// the attachment is rejected with the current prompt.
func (m *Manager) HandleMedia(ctx context.Context, sender, downloadURL, fileName string) (string, bool) {
	state, ok := m.forms.Get(sender)
	if !ok {
		return "", false
	}

	if state.stepIndex != photoStepIndex {
		return "Сейчас нужен текстовый ответ. " + steps[state.stepIndex].prompt, true
	}

	data, err := m.media.DownloadMedia(ctx, downloadURL)
	if err != nil {
		m.log.Warnf("sellform: download photo for %s: %v", sender, err)
		return msgMediaRetry, true
	}
	stored, err := m.photos.Save(ctx, fileName, data)
	if err != nil {
		m.log.Errorf("sellform: store photo for %s: %v", sender, err)
		return msgMediaRetry, true
	}

	state.input.Photos = append(state.input.Photos, stored)
	m.forms.Set(sender, state)

	if len(state.input.Photos) >= maxPhotos {
		return m.finalize(ctx, sender, state), true
	}
	return fmt.Sprintf("Фото %d из %d добавлено. Отправьте еще или напишите \"готово\".", len(state.input.Photos), maxPhotos), true
}

// finalize persists the finished form. The state is dropped regardless of
// the outcome so a failed save never traps the user in the wizard.
func (m *Manager) finalize(ctx context.Context, sender string, state *formState) string {
	m.forms.Delete(sender)

	ad, mod, err := m.ads.Create(ctx, state.input)
	if err != nil {
		if errors.Is(err, repository.ErrVINExists) {
			return msgVINTaken
		}
		m.log.Errorf("sellform: save ad for %s: %v", sender, err)
		return msgSaveFailed
	}

	title, hint := mod.Status.StatusInfo()
	return fmt.Sprintf("Объявление №%d создано.\nСтатус: %s. %s", ad.ID, title, hint)
}
