package entity

import (
	"strings"
	"time"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// ParseModerationStatus accepts the wire form of a status, case-insensitively.
func ParseModerationStatus(s string) (ModerationStatus, bool) {
	switch ModerationStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ModerationPending:
		return ModerationPending, true
	case ModerationApproved:
		return ModerationApproved, true
	case ModerationRejected:
		return ModerationRejected, true
	}
	return "", false
}

type Moderation struct {
	ID          int64            `db:"id" json:"id"`
	AdID        int64            `db:"ad_id" json:"ad_id"`
	ModeratorID *int64           `db:"moderator_id" json:"moderator_id,omitempty"`
	Status      ModerationStatus `db:"status" json:"status"`
	Comment     *string          `db:"comment" json:"comment,omitempty"`
	CheckedAt   *time.Time       `db:"checked_at" json:"checked_at,omitempty"`
}

type Moderator struct {
	ID           int64     `db:"id" json:"id"`
	TelegramID   int64     `db:"telegram_id" json:"telegram_id"`
	Username     *string   `db:"username" json:"username,omitempty"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
	IsActive     bool      `db:"is_active" json:"is_active"`
}

// StatusInfo returns a human-readable title and hint for a moderation status.
func (s ModerationStatus) StatusInfo() (title, hint string) {
	switch s {
	case ModerationPending:
		return "Ожидает проверки", "Модератор еще не проверил это объявление."
	case ModerationApproved:
		return "Одобрено", "Объявление прошло модерацию и опубликовано."
	case ModerationRejected:
		return "Отклонено", "Объявление не прошло модерацию. Проверьте комментарий."
	default:
		return "Неизвестный статус", "Статус не найден."
	}
}
