package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

func frontendLink(base, path string, query url.Values) string {
	link := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		link += "?" + query.Encode()
	}
	return link
}

func welcomeNotification(frontendURL string, user domain.User, token string) domain.Notification {
	link := frontendLink(frontendURL, "/verify-email", url.Values{"token": {token}})
	return domain.Notification{
		ID:      uuid.NewString(),
		Kind:    domain.NotifyWelcome,
		To:      user.Email,
		Subject: "Welcome to Segmentation Fault!",
		Body: fmt.Sprintf("Hello %s,\n\nClick the link below to verify your email for Segmentation Fault:\n\n%s",
			user.FirstName, link),
	}
}

func passwordResetNotification(frontendURL string, user domain.User, token string) domain.Notification {
	link := frontendLink(frontendURL, "/reset-password", url.Values{"token": {token}})
	return domain.Notification{
		ID:      uuid.NewString(),
		Kind:    domain.NotifyPasswordReset,
		To:      user.Email,
		Subject: "Password Reset Requested",
		Body: fmt.Sprintf("Hello %s,\n\nClick the link below to reset your password for Segmentation Fault:\n\n%s",
			user.FirstName, link),
	}
}

func commentNotification(frontendURL string, postAuthor, commenter domain.User, post domain.Post) domain.Notification {
	link := frontendLink(frontendURL, fmt.Sprintf("/posts/%d", post.ID), nil)
	return domain.Notification{
		ID:      uuid.NewString(),
		Kind:    domain.NotifyNewComment,
		To:      postAuthor.Email,
		Subject: "Segmentation Fault: New comment on your post",
		Body: fmt.Sprintf("Hello %s,\n\n%s commented on your post:\n%s\n\n%s",
			postAuthor.FirstName, commenter.FullName(), post.Title, link),
	}
}
