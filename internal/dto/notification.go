package dto

import (
	"time"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string    `json:"notificationID"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToNotificationResponses converts notifications to DTOs.
func ToNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	res := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		res[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			Title:          n.Title,
			Message:        n.Message,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt,
		}
	}
	return res
}

// ListNotificationsParams defines query parameters for listing notifications.
type ListNotificationsParams struct {
	UnreadOnly bool `form:"unreadOnly"`
	Limit      int  `form:"limit,default=50" binding:"min=1,max=200"`
}
