package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func listNotificationsHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notifications, err := uc.ListNotifications(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, notifications)
	}
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

func unreadCountHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := uc.UnreadCount(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, unreadCountResponse{Count: count})
	}
}

func markNotificationReadHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.NotificationID(chi.URLParam(r, "notificationID"))
		notification, err := uc.MarkNotificationRead(r.Context(), id)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, notification)
	}
}
