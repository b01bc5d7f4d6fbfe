// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/olegiv/academy/internal/access"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
)

// CourseHandler serves lessons to members. It runs behind the course guard,
// which puts the member's user record into the request context.
type CourseHandler struct {
	lessons *repository.Lessons
	now     func() time.Time
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(lessons *repository.Lessons, now func() time.Time) *CourseHandler {
	if now == nil {
		now = time.Now
	}
	return &CourseHandler{lessons: lessons, now: now}
}

// LessonView is a lesson as a member sees it. The embed URL is only
// included when the member may watch the lesson.
type LessonView struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Free       bool   `json:"free"`
	Accessible bool   `json:"accessible"`
	URL        string `json:"url,omitempty"`
}

// CourseView lists the lessons and the one to open first.
type CourseView struct {
	Lessons   []LessonView `json:"lessons"`
	InitialID *int64       `json:"initialId"`
}

func lessonView(l model.Lesson, accessible bool) LessonView {
	v := LessonView{ID: l.ID, Title: l.Title, Free: l.Free, Accessible: accessible}
	if accessible {
		v.URL = l.URL
	}
	return v
}

// ListLessons handles GET /api/course/lessons.
func (h *CourseHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessons.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "listing lessons")
		return
	}

	user := middleware.GetUser(r)
	now := h.now()

	view := CourseView{Lessons: make([]LessonView, 0, len(lessons))}
	for _, l := range lessons {
		view.Lessons = append(view.Lessons, lessonView(l, access.CanAccessLesson(l, user, now)))
	}
	if i, ok := access.FirstAccessible(lessons, user, now); ok {
		id := lessons[i].ID
		view.InitialID = &id
	}
	WriteSuccess(w, view)
}

// GetLesson handles GET /api/course/lessons/{id}.
func (h *CourseHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	lesson, err := h.lessons.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "loading lesson")
		return
	}

	if !access.CanAccessLesson(lesson, middleware.GetUser(r), h.now()) {
		writeLocalizedError(w, r, http.StatusForbidden, "lesson_locked", "error.lesson_locked")
		return
	}
	WriteSuccess(w, lessonView(lesson, true))
}
