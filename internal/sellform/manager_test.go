package sellform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
	"avtobot/internal/service"
)

type fakeAdService struct {
	created   []entity.NewAdInput
	createErr error
	nextID    int64
}

func (f *fakeAdService) Create(_ context.Context, input entity.NewAdInput) (*entity.Ad, *entity.Moderation, error) {
	if f.createErr != nil {
		return nil, nil, f.createErr
	}
	f.created = append(f.created, input)
	f.nextID++
	ad := &entity.Ad{ID: f.nextID, Sender: input.Sender, Title: input.Title, VINNumber: input.VIN}
	mod := &entity.Moderation{AdID: ad.ID, Status: entity.ModerationPending}
	return ad, mod, nil
}

func (f *fakeAdService) GetByID(context.Context, int64) (*entity.Ad, error) { return nil, nil }
func (f *fakeAdService) Images(context.Context, int64) ([]entity.AdImage, error) {
	return nil, nil
}
func (f *fakeAdService) Preview(context.Context, string, int) (*service.OwnerPreview, error) {
	return nil, nil
}
func (f *fakeAdService) Search(context.Context, string, int) ([]entity.Ad, error) {
	return nil, nil
}
func (f *fakeAdService) RecordView(context.Context, int64, string) {}
func (f *fakeAdService) ViewCount(context.Context, int64) int { return 0 }

type fakeStorage struct {
	saved []string
	err   error
}

func (f *fakeStorage) Save(_ context.Context, name string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := fmt.Sprintf("media/%d_%s", len(f.saved), name)
	f.saved = append(f.saved, path)
	return path, nil
}

type fakeDownloader struct {
	err error
}

func (f *fakeDownloader) DownloadMedia(context.Context, string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("jpeg-bytes"), nil
}

func newTestManager() (*Manager, *fakeAdService, *fakeStorage, *fakeDownloader) {
	ads := &fakeAdService{}
	store := &fakeStorage{}
	dl := &fakeDownloader{}
	return NewManager(ads, store, dl, logger.NewNop()), ads, store, dl
}

// answers drives the wizard up to (but not including) the photo step.
var answers = []string{
	"Продам Ладу",
	"Отличное состояние, один владелец",
	"450 000",
	"Lada",
	"Granta",
	"2019",
	"54 321",
	"XTA21099",
	"Москва",
	"целый",
}

func fillTextSteps(t *testing.T, m *Manager, sender string) {
	t.Helper()
	ctx := context.Background()
	for i, answer := range answers {
		reply, handled := m.HandleText(ctx, sender, answer)
		require.True(t, handled, "step %d", i)
		require.NotContains(t, reply, "Ошибка", "step %d answer %q", i, answer)
	}
}

func TestManagerStartReturnsFirstPrompt(t *testing.T) {
	m, _, _, _ := newTestManager()

	prompt := m.Start("79991112233@c.us")

	assert.Equal(t, steps[0].prompt, prompt)
	assert.True(t, m.Active("79991112233@c.us"))
}

func TestManagerTextWithoutFormNotHandled(t *testing.T) {
	m, _, _, _ := newTestManager()

	reply, handled := m.HandleText(context.Background(), "x@c.us", "привет")

	assert.False(t, handled)
	assert.Empty(t, reply)
}

func TestManagerValidationErrorRepromptsSameStep(t *testing.T) {
	m, _, _, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)

	reply, handled := m.HandleText(context.Background(), sender, "ab")

	require.True(t, handled)
	assert.Contains(t, reply, "Ошибка:")
	assert.Contains(t, reply, steps[0].prompt)

	// the step did not advance, a valid answer still lands on the title
	reply, _ = m.HandleText(context.Background(), sender, "Продам Ладу")
	assert.Equal(t, steps[1].prompt, reply)
}

func TestManagerCancelWordAborts(t *testing.T) {
	for _, word := range []string{"отмена", "Cancel", "СТОП", "stop", "меню", "menu"} {
		t.Run(word, func(t *testing.T) {
			m, _, _, _ := newTestManager()
			sender := "x@c.us"
			m.Start(sender)

			reply, handled := m.HandleText(context.Background(), sender, word)

			require.True(t, handled)
			assert.Equal(t, msgCancelled, reply)
			assert.False(t, m.Active(sender))
		})
	}
}

func TestManagerRestartDiscardsPreviousForm(t *testing.T) {
	m, _, _, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)
	_, _ = m.HandleText(context.Background(), sender, "Продам Ладу")

	prompt := m.Start(sender)

	// back to the first question
	assert.Equal(t, steps[0].prompt, prompt)
}

func TestManagerPriceWithSpacesAccepted(t *testing.T) {
	m, ads, store, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)

	_, handled := m.HandleMedia(context.Background(), sender, "https://media/1", "car.jpg")
	require.True(t, handled)
	reply, _ := m.HandleText(context.Background(), sender, "готово")

	require.Contains(t, reply, "Объявление №1 создано")
	require.Len(t, ads.created, 1)
	created := ads.created[0]
	assert.Equal(t, 450000, created.Price)
	assert.Equal(t, 54321, created.Mileage)
	assert.Equal(t, 2019, created.Year)
	assert.Equal(t, "XTA21099", created.VIN)
	assert.Equal(t, string(entity.ConditionIntact), created.Condition)
	assert.Equal(t, store.saved, created.Photos)
}

func TestManagerNumericBounds(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"zero price", "0"},
		{"negative price", "-100"},
		{"over int cap", strconv.Itoa(maxIntValue + 1)},
		{"not a number", "дорого"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, _, _, _ := newTestManager()
			sender := "x@c.us"
			m.Start(sender)
			_, _ = m.HandleText(context.Background(), sender, answers[0])
			_, _ = m.HandleText(context.Background(), sender, answers[1])

			reply, _ := m.HandleText(context.Background(), sender, tc.value)

			assert.Contains(t, reply, "Ошибка:")
		})
	}
}

func TestManagerDoneWithoutPhotosRejected(t *testing.T) {
	m, _, _, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)

	reply, handled := m.HandleText(context.Background(), sender, "готово")

	require.True(t, handled)
	assert.Equal(t, msgNeedPhoto, reply)
	assert.True(t, m.Active(sender))
}

func TestManagerPhotoStepRejectsOtherText(t *testing.T) {
	m, _, _, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)

	reply, _ := m.HandleText(context.Background(), sender, "вот фото")

	assert.Equal(t, msgPhotoStepText, reply)
}

func TestManagerPhotoCapAutoFinalizes(t *testing.T) {
	m, ads, _, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)

	ctx := context.Background()
	reply, _ := m.HandleMedia(ctx, sender, "https://media/1", "a.jpg")
	assert.Contains(t, reply, "Фото 1 из 3")
	reply, _ = m.HandleMedia(ctx, sender, "https://media/2", "b.jpg")
	assert.Contains(t, reply, "Фото 2 из 3")
	reply, _ = m.HandleMedia(ctx, sender, "https://media/3", "c.jpg")

	assert.Contains(t, reply, "создано")
	assert.False(t, m.Active(sender))
	require.Len(t, ads.created, 1)
	assert.Len(t, ads.created[0].Photos, 3)
}

func TestManagerMediaBeforePhotoStepReprompts(t *testing.T) {
	m, _, _, _ := newTestManager()
	sender := "x@c.us"
	m.Start(sender)

	reply, handled := m.HandleMedia(context.Background(), sender, "https://media/1", "a.jpg")

	require.True(t, handled)
	assert.Contains(t, reply, steps[0].prompt)
}

func TestManagerMediaDownloadFailureReprompts(t *testing.T) {
	m, _, _, dl := newTestManager()
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)
	dl.err = errors.New("timeout")

	reply, _ := m.HandleMedia(context.Background(), sender, "https://media/1", "a.jpg")

	assert.Equal(t, msgMediaRetry, reply)
	assert.True(t, m.Active(sender))
}

func TestManagerDuplicateVIN(t *testing.T) {
	m, ads, _, _ := newTestManager()
	ads.createErr = repository.ErrVINExists
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)
	_, _ = m.HandleMedia(context.Background(), sender, "https://media/1", "a.jpg")

	reply, _ := m.HandleText(context.Background(), sender, "готово")

	assert.Equal(t, msgVINTaken, reply)
	assert.False(t, m.Active(sender))
}

func TestManagerSaveFailureClearsState(t *testing.T) {
	m, ads, _, _ := newTestManager()
	ads.createErr = errors.New("connection refused")
	sender := "x@c.us"
	m.Start(sender)
	fillTextSteps(t, m, sender)
	_, _ = m.HandleMedia(context.Background(), sender, "https://media/1", "a.jpg")

	reply, _ := m.HandleText(context.Background(), sender, "готово")

	assert.Equal(t, msgSaveFailed, reply)
	assert.False(t, m.Active(sender))
}
