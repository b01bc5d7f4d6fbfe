// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package access decides whether an identity may open course content.
// All functions are pure and take the current time as an argument.
package access

import (
	"time"

	"github.com/olegiv/academy/internal/model"
)

// CanAccessLesson reports whether user may open lesson at now.
// Free lessons are open to everyone, admins see everything, and subscribers
// need an expiry date that has not passed yet (a subscription ending today
// is still valid). A nil user can only open free lessons.
func CanAccessLesson(lesson model.Lesson, user *model.User, now time.Time) bool {
	if lesson.Free {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	expiry, ok := user.ExpiresAt()
	if !ok {
		return false
	}
	return !expiry.Before(now)
}

// SubscriptionExpired is the login-time check: a non-admin whose expiry is
// strictly before now may not sign in. Users without an expiry, or with one
// that cannot be parsed, are not considered expired.
func SubscriptionExpired(user *model.User, now time.Time) bool {
	if user == nil || user.IsAdmin() {
		return false
	}
	expiry, ok := user.ExpiresAt()
	if !ok {
		return false
	}
	return expiry.Before(now)
}

// FirstAccessible returns the index of the first lesson user may open.
func FirstAccessible(lessons []model.Lesson, user *model.User, now time.Time) (int, bool) {
	for i := range lessons {
		if CanAccessLesson(lessons[i], user, now) {
			return i, true
		}
	}
	return -1, false
}
