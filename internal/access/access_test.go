// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/academy/internal/model"
)

var now = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func TestCanAccessLesson(t *testing.T) {
	paid := model.Lesson{ID: 1, Title: "Paid", RawURL: "https://youtu.be/x"}
	free := model.Lesson{ID: 2, Title: "Free", Free: true}

	tests := []struct {
		name   string
		lesson model.Lesson
		user   *model.User
		want   bool
	}{
		{"free lesson anonymous", free, nil, true},
		{"free lesson expired user", free, &model.User{Role: model.RoleUser, Expiry: "2000-01-01"}, true},
		{"paid lesson anonymous", paid, nil, false},
		{"paid lesson admin", paid, &model.User{Role: model.RoleAdmin}, true},
		{"paid lesson admin expired", paid, &model.User{Role: model.RoleAdmin, Expiry: "2000-01-01"}, true},
		{"paid lesson future expiry", paid, &model.User{Role: model.RoleUser, Expiry: "2099-01-01"}, true},
		{"paid lesson past expiry", paid, &model.User{Role: model.RoleUser, Expiry: "2026-03-14"}, false},
		{"paid lesson no expiry", paid, &model.User{Role: model.RoleUser}, false},
		{"paid lesson unparseable expiry", paid, &model.User{Role: model.RoleUser, Expiry: "soon"}, false},
		{"paid lesson rfc3339 expiry later", paid, &model.User{Role: model.RoleUser, Expiry: "2026-03-15T10:30:00Z"}, true},
		{"paid lesson rfc3339 expiry earlier", paid, &model.User{Role: model.RoleUser, Expiry: "2026-03-15T10:29:59Z"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessLesson(tt.lesson, tt.user, now))
		})
	}
}

func TestCanAccessLesson_BoundaryIsInclusive(t *testing.T) {
	paid := model.Lesson{ID: 1}
	user := &model.User{Role: model.RoleUser, Expiry: "2026-03-15"}
	midnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, CanAccessLesson(paid, user, midnight), "expiry equal to now grants access")
	assert.False(t, CanAccessLesson(paid, user, midnight.Add(time.Millisecond)))
}

func TestSubscriptionExpired(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want bool
	}{
		{"nil user", nil, false},
		{"admin with past expiry", &model.User{Role: model.RoleAdmin, Expiry: "2000-01-01"}, false},
		{"user past expiry", &model.User{Role: model.RoleUser, Expiry: "2026-03-14"}, true},
		{"user future expiry", &model.User{Role: model.RoleUser, Expiry: "2099-01-01"}, false},
		{"user without expiry", &model.User{Role: model.RoleUser}, false},
		{"user with unparseable expiry", &model.User{Role: model.RoleUser, Expiry: "n/a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubscriptionExpired(tt.user, now))
		})
	}
}

func TestSubscriptionExpired_BoundaryIsStrict(t *testing.T) {
	user := &model.User{Role: model.RoleUser, Expiry: "2026-03-15"}
	midnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, SubscriptionExpired(user, midnight))
	assert.True(t, SubscriptionExpired(user, midnight.Add(time.Nanosecond)))
}

func TestFirstAccessible(t *testing.T) {
	lessons := []model.Lesson{
		{ID: 1, Title: "Intro"},
		{ID: 2, Title: "Sample", Free: true},
		{ID: 3, Title: "Deep dive"},
	}

	idx, ok := FirstAccessible(lessons, nil, now)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = FirstAccessible(lessons, &model.User{Role: model.RoleUser, Expiry: "2099-12-31"}, now)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = FirstAccessible(lessons[:1], &model.User{Role: model.RoleUser}, now)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)

	_, ok = FirstAccessible(nil, &model.User{Role: model.RoleAdmin}, now)
	assert.False(t, ok)
}
