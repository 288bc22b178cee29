package service

import (
	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/models"
)

// События уведомлений. Используются и как тип в ленте, и как имя
// WebSocket-сообщения.
const (
	EventRequestSubmitted  = "request.submitted"
	EventRequestAccepted   = "request.accepted"
	EventRequestRejected   = "request.rejected"
	EventListingCancelled  = "listing.cancelled"
	EventListingCompleted  = "listing.completed"
	EventListingExpired    = "listing.expired"
	EventFeedbackReceived  = "feedback.received"
	EventComplaintFiled    = "complaint.filed"
	EventComplaintResolved = "complaint.resolved"
)

// NotificationIntent описывает одно уведомление, которое нужно доставить.
// Intents собираются чистыми функциями после фиксации перехода и
// отправляются получателям вне транзакции.
type NotificationIntent struct {
	RecipientID uuid.UUID              `json:"recipient_id"`
	Event       string                 `json:"event"`
	Payload     map[string]interface{} `json:"payload"`
}

// requestSubmittedIntents — ресторану о новой заявке.
func requestSubmittedIntents(listing *models.Listing, request *models.Request) []NotificationIntent {
	return []NotificationIntent{{
		RecipientID: listing.DonorID,
		Event:       EventRequestSubmitted,
		Payload: map[string]interface{}{
			"listing_id":    listing.ID,
			"listing_title": listing.Title,
			"request_id":    request.ID,
			"ngo_id":        request.NgoID,
			"pickup_at":     request.PickupAt,
		},
	}}
}

// requestAcceptedIntents — победителю о подтверждении, остальным об отказе.
func requestAcceptedIntents(listing *models.Listing, accepted *models.Request, rejected []models.Request) []NotificationIntent {
	intents := []NotificationIntent{{
		RecipientID: accepted.NgoID,
		Event:       EventRequestAccepted,
		Payload: map[string]interface{}{
			"listing_id":    listing.ID,
			"listing_title": listing.Title,
			"request_id":    accepted.ID,
			"pickup_at":     accepted.PickupAt,
		},
	}}
	for _, r := range rejected {
		intents = append(intents, NotificationIntent{
			RecipientID: r.NgoID,
			Event:       EventRequestRejected,
			Payload: map[string]interface{}{
				"listing_id":    listing.ID,
				"listing_title": listing.Title,
				"request_id":    r.ID,
			},
		})
	}
	return intents
}

// requestRejectedIntents — НКО об отклонении её заявки.
func requestRejectedIntents(listing *models.Listing, rejected *models.Request) []NotificationIntent {
	return []NotificationIntent{{
		RecipientID: rejected.NgoID,
		Event:       EventRequestRejected,
		Payload: map[string]interface{}{
			"listing_id":    listing.ID,
			"listing_title": listing.Title,
			"request_id":    rejected.ID,
		},
	}}
}

// listingClosedIntents — всем НКО с неотклонёнными заявками при отмене,
// завершении или истечении срока. Событие задаёт вызывающая сторона.
func listingClosedIntents(event string, listing *models.Listing, requests []models.Request) []NotificationIntent {
	var intents []NotificationIntent
	for _, r := range requests {
		if r.Status == models.RequestStatusRejected {
			continue
		}
		intents = append(intents, NotificationIntent{
			RecipientID: r.NgoID,
			Event:       event,
			Payload: map[string]interface{}{
				"listing_id":    listing.ID,
				"listing_title": listing.Title,
				"request_id":    r.ID,
			},
		})
	}
	return intents
}

// feedbackReceivedIntents — получателю отзыва.
func feedbackReceivedIntents(feedback *models.Feedback) []NotificationIntent {
	return []NotificationIntent{{
		RecipientID: feedback.ToUserID,
		Event:       EventFeedbackReceived,
		Payload: map[string]interface{}{
			"listing_id":  feedback.ListingID,
			"feedback_id": feedback.ID,
			"stars":       feedback.Stars,
		},
	}}
}

// complaintFiledIntents — пользователю, на которого подали жалобу.
func complaintFiledIntents(complaint *models.Complaint) []NotificationIntent {
	return []NotificationIntent{{
		RecipientID: complaint.ToUserID,
		Event:       EventComplaintFiled,
		Payload: map[string]interface{}{
			"complaint_id": complaint.ID,
			"type":         complaint.Type,
		},
	}}
}

// complaintResolvedIntents — автору жалобы об итоговом решении.
func complaintResolvedIntents(complaint *models.Complaint) []NotificationIntent {
	return []NotificationIntent{{
		RecipientID: complaint.FromUserID,
		Event:       EventComplaintResolved,
		Payload: map[string]interface{}{
			"complaint_id": complaint.ID,
			"status":       complaint.Status,
		},
	}}
}
